package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// questionnaireLength is the fixed number of vetting questions every
// artisan answers before activation.
const questionnaireLength = 10

// OnboardingService walks an artisan through the mandatory profile
// completion stages: questionnaire, then ID upload. Each completed stage
// advances the cached user's onboarding step and re-routes.
type OnboardingService struct {
	session *SessionService
	router  *SessionRouter
	artisan ports.ArtisanAPI
	log     zerolog.Logger
}

func NewOnboardingService(session *SessionService, router *SessionRouter, artisan ports.ArtisanAPI, log zerolog.Logger) *OnboardingService {
	return &OnboardingService{session: session, router: router, artisan: artisan, log: log}
}

// SubmitQuestionnaire submits the ten vetting answers, advances the cached
// onboarding step to the ID-upload stage and returns the next screen.
func (s *OnboardingService) SubmitQuestionnaire(ctx context.Context, answers []string) (Screen, error) {
	user, err := s.requireArtisan(ctx)
	if err != nil {
		return "", err
	}

	if len(answers) != questionnaireLength {
		return "", fmt.Errorf("all %d questions must be answered", questionnaireLength)
	}
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return "", fmt.Errorf("all %d questions must be answered", questionnaireLength)
		}
	}

	if err := s.artisan.SubmitQuestionnaire(ctx, user.ID, answers); err != nil {
		return "", err
	}

	s.advanceStep(ctx, user, domain.OnboardingStepIDUpload)
	return s.router.RouteUser(user), nil
}

// UploadIDCard submits the identity document image, completes onboarding
// and returns the next screen.
func (s *OnboardingService) UploadIDCard(ctx context.Context, imagePath string) (Screen, error) {
	user, err := s.requireArtisan(ctx)
	if err != nil {
		return "", err
	}
	if imagePath == "" {
		return "", errors.New("an ID image is required")
	}

	if err := s.artisan.UploadIDCard(ctx, user.ID, imagePath); err != nil {
		return "", err
	}

	s.advanceStep(ctx, user, domain.OnboardingStepComplete)
	return s.router.RouteUser(user), nil
}

func (s *OnboardingService) requireArtisan(ctx context.Context) (*domain.User, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsArtisan() {
		return nil, domain.ErrNotArtisan
	}
	return user, nil
}

// advanceStep mutates and re-persists the cached record. A persistence
// failure is logged, not surfaced: the server already accepted the step and
// the next login re-fetches the truth.
func (s *OnboardingService) advanceStep(ctx context.Context, user *domain.User, step int) {
	if user.Profile.OnboardingStep >= step {
		return
	}
	user.Profile.OnboardingStep = step
	if err := s.session.SaveUser(ctx, user); err != nil {
		s.log.Warn().Err(err).Int("step", step).Msg("failed to persist onboarding step")
	}
	s.log.Info().Str("user_id", user.ID).Int("step", step).Msg("onboarding step advanced")
}
