package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps the server-side half of a login session.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type Session struct {
	ID        string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// TxManager runs fn so that every store call made with the ctx it receives
// belongs to one transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
