package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/metrics"
)

// Screen identifies a top-level destination the router can resolve to.
type Screen string

const (
	ScreenOnboarding           Screen = "onboarding"
	ScreenWelcome              Screen = "welcome"
	ScreenArtisanQuestionnaire Screen = "artisan_questionnaire"
	ScreenArtisanIDUpload      Screen = "artisan_id_upload"
	ScreenArtisanTabs          Screen = "artisan_tabs"
	ScreenClientTabs           Screen = "client_tabs"
)

// SessionRouter picks the screen a user lands on, from cached session state
// at launch and from fresh server responses after login/signup.
type SessionRouter struct {
	session *SessionService
	log     zerolog.Logger
}

func NewSessionRouter(session *SessionService, log zerolog.Logger) *SessionRouter {
	return &SessionRouter{session: session, log: log}
}

// Route evaluates the launch decision table against the session store.
//
// A corrupted or unreadable session must never strand the user: only a
// cleanly absent record consults the onboarding flag, every other failure
// falls back to Welcome.
func (r *SessionRouter) Route(ctx context.Context) Screen {
	user, err := r.session.loadUser(ctx)
	switch {
	case err == nil:
		return r.RouteUser(user)
	case errors.Is(err, domain.ErrKeyNotFound):
		screen := ScreenOnboarding
		if r.session.HasSeenOnboarding(ctx) {
			screen = ScreenWelcome
		}
		r.observe(screen)
		return screen
	default:
		r.log.Warn().Err(err).Msg("cached session unreadable, falling back to welcome")
		r.observe(ScreenWelcome)
		return ScreenWelcome
	}
}

// RouteUser evaluates the decision table against a known user record, i.e.
// the fresh server response after login or signup, never the stale cache.
func (r *SessionRouter) RouteUser(user *domain.User) Screen {
	screen := ScreenClientTabs
	if user.IsArtisan() {
		switch user.Profile.OnboardingStep {
		case domain.OnboardingStepQuestionnaire:
			screen = ScreenArtisanQuestionnaire
		case domain.OnboardingStepIDUpload:
			screen = ScreenArtisanIDUpload
		default:
			screen = ScreenArtisanTabs
		}
	}

	r.log.Debug().Str("user_id", user.ID).Str("role", user.Role).Str("screen", string(screen)).Msg("session routed")
	r.observe(screen)
	return screen
}

func (r *SessionRouter) observe(screen Screen) {
	metrics.SessionRoutesTotal.WithLabelValues(string(screen)).Inc()
}
