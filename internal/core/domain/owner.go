package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner represents an authenticated account holder in the owner-keyed
// variant. Identity resolution stays outside the mutation core; the core
// only ever receives the resolved wallet identifier.
type Owner struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
