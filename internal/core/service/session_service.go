package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// Theme preference values persisted under ports.KeyTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// SessionService owns the locally cached session: auth token, user record,
// onboarding flag and theme preference. It is the only writer of the
// token/user pair, which is always replaced or cleared as a unit.
type SessionService struct {
	store ports.SessionStore
	auth  ports.AuthAPI
	log   zerolog.Logger
}

func NewSessionService(store ports.SessionStore, auth ports.AuthAPI, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, auth: auth, log: log}
}

// Login authenticates against the backend and caches the fresh token and
// user record atomically.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSession(ctx, res); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", res.User.ID).Str("role", res.User.Role).Msg("logged in")
	return res.User, nil
}

// Signup creates an account and, when the backend returns a token, caches
// the session exactly like a login.
func (s *SessionService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	res, err := s.auth.Signup(ctx, input)
	if err != nil {
		return nil, err
	}
	if res.Token != "" {
		if err := s.cacheSession(ctx, res); err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("user_id", res.User.ID).Str("role", res.User.Role).Msg("account created")
	return res.User, nil
}

func (s *SessionService) cacheSession(ctx context.Context, res *ports.AuthResult) error {
	raw, err := json.Marshal(res.User)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	return s.store.SetMulti(ctx, map[string]string{
		ports.KeyToken: res.Token,
		ports.KeyUser:  string(raw),
	})
}

// Logout clears the token and user record together. Local only; the backend
// holds no session state to invalidate.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.Remove(ctx, ports.KeyToken, ports.KeyUser)
}

// CurrentUser returns the cached user record. Any storage or decode failure
// is treated as "no session".
func (s *SessionService) CurrentUser(ctx context.Context) (*domain.User, error) {
	user, err := s.loadUser(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("cached session unreadable, treating as no session")
		}
		return nil, domain.ErrNoSession
	}
	return user, nil
}

// loadUser reads and decodes the cached record, keeping the raw failure:
// ErrKeyNotFound for a cleanly absent session, anything else for an
// unreadable one. The router uses the distinction for its fail-safe.
func (s *SessionService) loadUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.store.Get(ctx, ports.KeyUser)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode cached user record: %w", err)
	}
	return &user, nil
}

// SaveUser re-persists a locally mutated user record (onboarding step
// advances, profile edits).
func (s *SessionService) SaveUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	return s.store.Set(ctx, ports.KeyUser, string(raw))
}

// Token returns the cached bearer token, or "" when none is cached.
// Gateway calls with an empty token are still sent, unauthenticated.
func (s *SessionService) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx, ports.KeyToken)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("token read failed, sending unauthenticated")
		}
		return ""
	}
	return token
}

// Claims decodes the cached token's claims without verifying the signature.
// The client has no key material; this is a display/expiry peek only.
func (s *SessionService) Claims(ctx context.Context) (jwt.MapClaims, error) {
	token := s.Token(ctx)
	if token == "" {
		return nil, domain.ErrNoSession
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token claims: %w", err)
	}
	return claims, nil
}

// HasSeenOnboarding reports whether the onboarding carousel was completed
// on this device. Storage errors read as "not seen".
func (s *SessionService) HasSeenOnboarding(ctx context.Context) bool {
	v, err := s.store.Get(ctx, ports.KeyHasSeenOnboarding)
	if err != nil {
		return false
	}
	return v == "true"
}

// MarkOnboardingSeen sets the onboarding flag.
func (s *SessionService) MarkOnboardingSeen(ctx context.Context) error {
	return s.store.Set(ctx, ports.KeyHasSeenOnboarding, "true")
}

// Theme returns the persisted theme preference. The app is designed
// dark-first, so dark is the default when nothing is stored.
func (s *SessionService) Theme(ctx context.Context) string {
	v, err := s.store.Get(ctx, ports.KeyTheme)
	if err != nil || (v != ThemeDark && v != ThemeLight) {
		return ThemeDark
	}
	return v
}

// SetTheme persists the theme preference.
func (s *SessionService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.store.Set(ctx, ports.KeyTheme, theme)
}

// ToggleTheme flips between dark and light and returns the new value.
func (s *SessionService) ToggleTheme(ctx context.Context) (string, error) {
	next := ThemeLight
	if s.Theme(ctx) == ThemeLight {
		next = ThemeDark
	}
	if err := s.store.Set(ctx, ports.KeyTheme, next); err != nil {
		return "", err
	}
	return next, nil
}
