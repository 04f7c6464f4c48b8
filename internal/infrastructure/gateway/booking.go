package gateway

import (
	"context"
	"net/http"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// BookingGateway implements ports.BookingAPI over /booking. All calls are
// session-guarded: a 401 clears the local session before the error surfaces.
type BookingGateway struct {
	client *Client
}

func NewBookingGateway(client *Client) *BookingGateway {
	return &BookingGateway{client: client}
}

func (g *BookingGateway) Create(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	var booking domain.Booking
	err := g.client.doJSON(ctx, call{
		group:        groupBooking,
		op:           "create booking",
		method:       http.MethodPost,
		path:         "/booking",
		body:         input,
		sessionGuard: true,
	}, &booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (g *BookingGateway) List(ctx context.Context) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := g.client.doJSON(ctx, call{
		group:        groupBooking,
		op:           "fetch bookings",
		method:       http.MethodGet,
		path:         "/booking",
		sessionGuard: true,
	}, &bookings)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (g *BookingGateway) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	var booking domain.Booking
	err := g.client.doJSON(ctx, call{
		group:        groupBooking,
		op:           "update booking status",
		method:       http.MethodPut,
		path:         "/booking/" + bookingID + "/status",
		body:         map[string]string{"status": string(status)},
		sessionGuard: true,
	}, &booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
