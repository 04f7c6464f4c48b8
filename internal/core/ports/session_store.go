package ports

import "context"

// Well-known session store keys.
const (
	KeyToken             = "token"
	KeyUser              = "user"
	KeyHasSeenOnboarding = "hasSeenOnboarding"
	KeyTheme             = "theme"
)

// SessionStore is the durable local key-value store behind the session:
// auth token, cached user record, onboarding flag and theme preference.
//
// Absent keys yield domain.ErrKeyNotFound. Any other failure is a storage
// error: callers log it and treat the read as a cache miss, never surfacing
// it to the user.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMulti writes all pairs atomically. Login and signup use it so the
	// token and user record are replaced together or not at all.
	SetMulti(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
