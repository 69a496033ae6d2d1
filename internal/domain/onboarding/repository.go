package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long an idle session survives before the store may
// discard it.
const SessionTTL = 24 * time.Hour

// SessionRepository persists in-flight onboarding sessions
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
