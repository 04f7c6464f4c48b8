package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
	"github.com/fixit237/fixit-go/internal/validate"
)

// BookingWorkflow drives a booking's client-side lifecycle: creation by a
// customer, pending → accepted/declined by an artisan, and the status
// buckets both roles browse.
type BookingWorkflow struct {
	api       ports.BookingAPI
	validator *validate.Validator
	log       zerolog.Logger
}

func NewBookingWorkflow(api ports.BookingAPI, validator *validate.Validator, log zerolog.Logger) *BookingWorkflow {
	return &BookingWorkflow{api: api, validator: validator, log: log}
}

// Create requests a new engagement with an artisan. Input is validated
// locally before any network call; a gateway failure surfaces verbatim.
func (w *BookingWorkflow) Create(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	if err := w.validator.Struct(input); err != nil {
		return nil, err
	}

	booking, err := w.api.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	w.log.Info().Str("booking_id", booking.ID).Str("artisan_id", input.ArtisanID).Str("service_type", input.ServiceType).Msg("booking created")
	return booking, nil
}

// List returns all bookings visible to the current user. The backend scopes
// by role; the client only groups for display.
func (w *BookingWorkflow) List(ctx context.Context) ([]*domain.Booking, error) {
	return w.api.List(ctx)
}

// Filter returns the bookings belonging to one display bucket. A booking
// with no status counts as pending; declined and cancelled share a bucket.
func Filter(bookings []*domain.Booking, bucket domain.FilterBucket) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Bucket() == bucket {
			out = append(out, b)
		}
	}
	return out
}

// UpdateStatus performs the artisan's accept/decline action, then re-fetches
// the full list. The refreshed list is the source of truth: derived fields
// are server-computed, so no local patch is applied.
func (w *BookingWorkflow) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) ([]*domain.Booking, error) {
	if !domain.BookingPending.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTransition, status)
	}

	if _, err := w.api.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	w.log.Info().Str("booking_id", bookingID).Str("status", string(status)).Msg("booking status updated")
	return w.api.List(ctx)
}
