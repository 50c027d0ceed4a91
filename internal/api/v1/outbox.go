package v1

import (
	"encoding/json"
	"time"
)

// PendingOperation is a durable record of a saga step that failed and must
// be retried. Records are deleted once the retry succeeds.
type PendingOperation struct {
	ID        string          `json:"id"`
	Service   string          `json:"service"`
	Kind      string          `json:"kind"`
	Principal string          `json:"principal"`
	Payload   json.RawMessage `json:"payload"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
