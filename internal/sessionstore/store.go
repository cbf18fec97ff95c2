package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/surveyhub/survey-service/internal/engine"
)

// ErrNotFound is returned when no session snapshot exists under a key.
var ErrNotFound = errors.New("session not found")

// Store persists in-progress session snapshots between requests, keyed by
// an opaque per-respondent key (a chat conversation id, a browser session
// id). The engine itself stays caller-owned; the store only moves
// snapshots in and out.
type Store interface {
	Save(ctx context.Context, key string, snapshot engine.Snapshot) error
	Load(ctx context.Context, key string) (engine.Snapshot, error)
	Delete(ctx context.Context, key string) error
}

// DefaultTTL bounds how long an abandoned session lingers.
const DefaultTTL = 24 * time.Hour
