package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// ErrChatNotAvailable is returned when a booking has not been accepted yet.
var ErrChatNotAvailable = errors.New("chat is available once the booking is accepted")

// ChatService lists conversation threads and opens pollers on them. A
// thread becomes addressable from a booking once it has been accepted: the
// counterpart's identity is carried on the booking record.
type ChatService struct {
	api      ports.ChatAPI
	session  *SessionService
	interval time.Duration
	log      zerolog.Logger
}

func NewChatService(api ports.ChatAPI, session *SessionService, interval time.Duration, log zerolog.Logger) *ChatService {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &ChatService{api: api, session: session, interval: interval, log: log}
}

// Conversations returns the current user's thread list.
func (s *ChatService) Conversations(ctx context.Context) ([]*domain.ConversationSummary, error) {
	return s.api.Conversations(ctx)
}

// OpenThread returns a poller bound to the thread with otherUserID. The
// caller owns its lifecycle: Start while the view is mounted, Stop when it
// unmounts.
func (s *ChatService) OpenThread(ctx context.Context, otherUserID string) (*ConversationPoller, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return NewConversationPoller(s.api, user.ID, otherUserID, s.interval, s.log), nil
}

// OpenFromBooking opens the thread with the booking's counterpart. Chat is
// only offered once a booking has been accepted.
func (s *ChatService) OpenFromBooking(ctx context.Context, booking *domain.Booking) (*ConversationPoller, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if booking.Status.Normalize() != domain.BookingAccepted {
		return nil, ErrChatNotAvailable
	}
	other := booking.Counterpart(user.ID)
	return NewConversationPoller(s.api, user.ID, other.ID, s.interval, s.log), nil
}
