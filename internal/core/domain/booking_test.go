package domain

import "testing"

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingPending, BookingAccepted, true},
		{BookingPending, BookingDeclined, true},
		{BookingPending, BookingCompleted, false},
		{BookingPending, BookingCancelled, false},
		{BookingAccepted, BookingDeclined, false},
		{BookingAccepted, BookingCompleted, false},
		{BookingDeclined, BookingAccepted, false},
		{BookingCompleted, BookingPending, false},
		// absent status behaves as pending
		{"", BookingAccepted, true},
		{"", BookingDeclined, true},
		{"", BookingCompleted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("(%q).CanTransitionTo(%q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestBookingStatus_Normalize(t *testing.T) {
	if got := BookingStatus("").Normalize(); got != BookingPending {
		t.Errorf("empty status normalized to %q, want %q", got, BookingPending)
	}
	if got := BookingAccepted.Normalize(); got != BookingAccepted {
		t.Errorf("accepted normalized to %q, want unchanged", got)
	}
}

func TestBookingStatus_Bucket(t *testing.T) {
	cases := []struct {
		status BookingStatus
		want   FilterBucket
	}{
		{BookingPending, BucketPending},
		{"", BucketPending},
		{BookingAccepted, BucketAccepted},
		{BookingCompleted, BucketCompleted},
		{BookingDeclined, BucketDeclined},
		{BookingCancelled, BucketDeclined},
	}
	for _, c := range cases {
		if got := c.status.Bucket(); got != c.want {
			t.Errorf("(%q).Bucket() = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestBookingStatus_Actionable(t *testing.T) {
	if !BookingPending.Actionable() {
		t.Error("pending must be actionable")
	}
	if !BookingStatus("").Actionable() {
		t.Error("absent status must be actionable (treated as pending)")
	}
	for _, s := range []BookingStatus{BookingAccepted, BookingDeclined, BookingCompleted, BookingCancelled} {
		if s.Actionable() {
			t.Errorf("%q must not be actionable", s)
		}
	}
}

func TestBooking_Counterpart(t *testing.T) {
	b := &Booking{
		Customer: BookingParty{ID: "cust_1", Name: "Nadia"},
		Artisan:  BookingParty{ID: "art_1", Name: "Bosco"},
	}

	if got := b.Counterpart("cust_1"); got.ID != "art_1" {
		t.Errorf("customer's counterpart = %q, want artisan", got.ID)
	}
	if got := b.Counterpart("art_1"); got.ID != "cust_1" {
		t.Errorf("artisan's counterpart = %q, want customer", got.ID)
	}
}
