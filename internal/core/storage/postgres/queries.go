package postgres

// Players and monsters are stored as JSONB documents next to a version
// column. Updates are compare-and-swap on that column.

const (
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`

	queryInsertPrincipal = `
		INSERT INTO principals (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
		RETURNING username
	`

	querySelectPrincipal = `
		SELECT username, password_hash, created_at
		FROM principals
		WHERE username = $1
	`

	queryInsertPlayer = `
		INSERT INTO players (username, doc, version, created_at, updated_at)
		VALUES ($1, $2, 1, $3, $3)
		ON CONFLICT (username) DO NOTHING
		RETURNING version
	`

	querySelectPlayer = `
		SELECT doc, version
		FROM players
		WHERE username = $1
	`

	// queryUpdatePlayer matches nothing when another writer got there first.
	queryUpdatePlayer = `
		UPDATE players
		SET doc = $2, version = version + 1, updated_at = $3
		WHERE username = $1 AND version = $4
	`

	queryInsertMonster = `
		INSERT INTO monsters (id, owner, doc, version, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING version
	`

	querySelectMonster = `
		SELECT doc, version
		FROM monsters
		WHERE id = $1
	`

	queryUpdateMonster = `
		UPDATE monsters
		SET owner = $2, doc = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND version = $5
	`

	queryDeleteMonster = `DELETE FROM monsters WHERE id = $1`

	queryInsertBattle = `
		INSERT INTO battles (id, initiator, doc, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	querySelectBattle = `SELECT doc FROM battles WHERE id = $1`

	queryListBattles = `
		SELECT doc - 'logs'
		FROM battles
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	queryInsertOperation = `
		INSERT INTO outbox (
			id, service, kind, principal, payload,
			attempts, last_error, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, 0, '', $6, $6)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	// queryPendingOperations skips dead letters and rows touched by the
	// current drain.
	queryPendingOperations = `
		SELECT
			id, service, kind, principal, payload,
			attempts, last_error, created_at, updated_at
		FROM outbox
		WHERE service = $1
		  AND attempts < $2
		  AND updated_at < $3
		ORDER BY created_at ASC, id ASC
		LIMIT $4
	`

	queryDeleteOperation = `DELETE FROM outbox WHERE id = $1`

	queryFailOperation = `
		UPDATE outbox
		SET attempts = attempts + 1, last_error = $2, updated_at = $3
		WHERE id = $1
	`

	queryCountOperations = `
		SELECT COUNT(*)
		FROM outbox
		WHERE service = $1 AND attempts < $2
	`
)
