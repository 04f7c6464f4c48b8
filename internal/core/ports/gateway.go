package ports

import (
	"context"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

// SignupInput carries the account-creation form.
type SignupInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=customer artisan"`
	Phone    string
}

// AuthResult is the backend's answer to login and signup.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// AuthAPI wraps the /auth resource group.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
}

// ArtisanSearch filters the artisan directory. Zero values mean "no filter";
// Lat/Long are only sent when both are set.
type ArtisanSearch struct {
	Category string
	Lat      float64
	Long     float64
}

// ProfileUpdate is a partial profile mutation. Nil-able fields distinguish
// "leave unchanged" from "set to zero".
type ProfileUpdate struct {
	Name       *string             `json:"name,omitempty"`
	Avatar     *string             `json:"avatar,omitempty"`
	Phone      *string             `json:"phone,omitempty"`
	Bio        *string             `json:"bio,omitempty"`
	Skills     []string            `json:"skills,omitempty"`
	Experience *string             `json:"experience,omitempty"`
	Location   *domain.Coordinates `json:"location,omitempty"`
	Available  *bool               `json:"available,omitempty"`
	Portfolio  []string            `json:"portfolio,omitempty"`
}

// ArtisanAPI wraps the /artisan resource group, including the onboarding
// sub-resources.
type ArtisanAPI interface {
	Search(ctx context.Context, filter ArtisanSearch) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, artisanID string, update ProfileUpdate) (*domain.User, error)
	// UploadImage posts the file as a multipart "image" field and returns the
	// absolute URL of the stored image.
	UploadImage(ctx context.Context, path string) (string, error)
	SubmitQuestionnaire(ctx context.Context, artisanID string, answers []string) error
	UploadIDCard(ctx context.Context, artisanID, path string) error
}

// UserAPI wraps the /user resource group (client-side profile management).
type UserAPI interface {
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
	UploadImage(ctx context.Context, path string) (string, error)
}

// CreateBookingInput carries everything needed to request a service
// engagement with an artisan.
type CreateBookingInput struct {
	ArtisanID   string `json:"artisanId" validate:"required"`
	ServiceType string `json:"serviceType" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    domain.Location `json:"location"`
}

// BookingAPI wraps the /booking resource group. All calls are
// authenticated; a 401 forces local logout before the error surfaces.
type BookingAPI interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	// List returns all bookings visible to the current user; the backend
	// scopes by role (customers see their requests, artisans their jobs).
	List(ctx context.Context) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error)
}

// ChatAPI wraps the /chat resource group. All calls are authenticated; a
// 401 forces local logout before the error surfaces.
type ChatAPI interface {
	Send(ctx context.Context, recipientID, content string) (*domain.Message, error)
	// Conversation returns the full two-party thread with otherUserID, in
	// the backend's order (creation time ascending).
	Conversation(ctx context.Context, otherUserID string) ([]*domain.Message, error)
	Conversations(ctx context.Context) ([]*domain.ConversationSummary, error)
}

// NotificationAPI wraps the /notifications resource group.
type NotificationAPI interface {
	List(ctx context.Context) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context) error
}
