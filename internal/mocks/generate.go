package mocks

//go:generate mockery --name PlayerAPI --srcpkg github.com/aevon-lab/monster-arena/internal/clients --output ./clients --outpkg clientmocks --with-expecter
//go:generate mockery --name MonsterAPI --srcpkg github.com/aevon-lab/monster-arena/internal/clients --output ./clients --outpkg clientmocks --with-expecter
