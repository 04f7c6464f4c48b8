package gateway

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
	"github.com/fixit237/fixit-go/internal/gatewaytest"
)

var discardLogger = zerolog.Nop()

// harness wires a gateway client against the in-memory backend.
type harness struct {
	backend *gatewaytest.Server
	client  *Client
	token   atomic.Value // string
	logouts atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: gatewaytest.New("test-secret")}
	h.token.Store("")

	srv := httptest.NewServer(h.backend.Handler())
	t.Cleanup(srv.Close)

	h.client = NewClient(Options{
		BaseURL:   srv.URL + "/api",
		ServerURL: srv.URL,
		Timeout:   5 * time.Second,
		Token: func(context.Context) string {
			return h.token.Load().(string)
		},
		OnUnauthorized: func(context.Context) {
			h.logouts.Add(1)
			h.token.Store("")
		},
		Logger: discardLogger,
	})
	return h
}

func (h *harness) loginAs(t *testing.T, user *domain.User) {
	t.Helper()
	h.token.Store(h.backend.TokenFor(user))
}

func tempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o600); err != nil {
		t.Fatalf("write temp image: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuthGateway_LoginRoundTrip(t *testing.T) {
	h := newHarness(t)
	seeded := h.backend.SeedAccount("nadia@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "Nadia"})
	auth := NewAuthGateway(h.client)

	res, err := auth.Login(context.Background(), "nadia@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a token")
	}
	if res.User == nil || res.User.ID != seeded.ID {
		t.Errorf("returned user = %+v", res.User)
	}
}

func TestAuthGateway_LoginWrongPasswordSurfacesBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedAccount("nadia@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "Nadia"})
	auth := NewAuthGateway(h.client)

	_, err := auth.Login(context.Background(), "nadia@example.com", "wrong-password")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q, want the backend's envelope message", apiErr.Message)
	}
	// A 401 on the auth group is a wrong password, not an expired session.
	if h.logouts.Load() != 0 {
		t.Error("login failure must not trigger forced logout")
	}
}

func TestAuthGateway_LoginUnknownEmail(t *testing.T) {
	h := newHarness(t)
	auth := NewAuthGateway(h.client)

	_, err := auth.Login(context.Background(), "nobody@example.com", "secret123")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 *APIError, got %v", err)
	}
	if apiErr.Message != "User not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAuthGateway_SignupDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedAccount("taken@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "First"})
	auth := NewAuthGateway(h.client)

	_, err := auth.Signup(context.Background(), ports.SignupInput{
		Name: "Second", Email: "taken@example.com", Password: "secret123", Role: "customer",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected 409 *APIError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Session guard
// ---------------------------------------------------------------------------

func TestBookingGateway_ExpiredTokenForcesLogout(t *testing.T) {
	h := newHarness(t)
	user := h.backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	h.loginAs(t, user)
	h.backend.ForceUnauthorized(true)

	bookings := NewBookingGateway(h.client)
	_, err := bookings.List(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	if h.logouts.Load() != 1 {
		t.Errorf("forced logout ran %d times, want 1", h.logouts.Load())
	}
	if h.token.Load().(string) != "" {
		t.Error("token must be cleared before the error surfaces")
	}
}

func TestChatGateway_ExpiredTokenForcesLogout(t *testing.T) {
	h := newHarness(t)
	user := h.backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	h.loginAs(t, user)
	h.backend.ForceUnauthorized(true)

	chat := NewChatGateway(h.client)
	if _, err := chat.Conversations(context.Background()); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
}

// ---------------------------------------------------------------------------
// Bookings through the fake backend
// ---------------------------------------------------------------------------

func TestBookingGateway_CreateAndList(t *testing.T) {
	h := newHarness(t)
	customer := h.backend.SeedAccount("c@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "C"})
	artisan := h.backend.SeedAccount("a@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "A"})
	h.loginAs(t, customer)

	bookings := NewBookingGateway(h.client)
	created, err := bookings.Create(context.Background(), ports.CreateBookingInput{
		ArtisanID:   artisan.ID,
		ServiceType: "plumbing",
		Date:        "2026-09-15",
		Time:        "09:00",
		Description: "leaking sink",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.BookingPending {
		t.Errorf("new booking status = %q, want pending", created.Status)
	}
	if created.Artisan.Name != "A" {
		t.Errorf("artisan party = %+v, want the seeded name", created.Artisan)
	}

	list, err := bookings.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestBookingGateway_ListIsScopedToCaller(t *testing.T) {
	h := newHarness(t)
	c1 := h.backend.SeedAccount("c1@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "C1"})
	c2 := h.backend.SeedAccount("c2@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "C2"})
	a := h.backend.SeedAccount("a@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "A"})
	h.backend.SeedBooking(c1, a, "plumbing", domain.BookingPending)
	h.backend.SeedBooking(c2, a, "electrical", domain.BookingPending)

	bookings := NewBookingGateway(h.client)

	h.loginAs(t, c1)
	list, err := bookings.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Customer.ID != c1.ID {
		t.Errorf("customer list not scoped: %+v", list)
	}

	h.loginAs(t, a)
	list, err = bookings.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("artisan sees %d bookings, want both jobs", len(list))
	}
}

func TestBookingGateway_UpdateStatusTransitions(t *testing.T) {
	h := newHarness(t)
	c := h.backend.SeedAccount("c@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "C"})
	a := h.backend.SeedAccount("a@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "A"})
	booking := h.backend.SeedBooking(c, a, "plumbing", domain.BookingPending)
	h.loginAs(t, a)

	bookings := NewBookingGateway(h.client)
	updated, err := bookings.UpdateStatus(context.Background(), booking.ID, domain.BookingAccepted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.BookingAccepted {
		t.Errorf("status = %q, want accepted", updated.Status)
	}

	// Accepting an already-accepted booking is rejected server-side.
	_, err = bookings.UpdateStatus(context.Background(), booking.ID, domain.BookingAccepted)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 *APIError, got %v", err)
	}
}

func TestBookingGateway_AbsentStatusBehavesAsPending(t *testing.T) {
	h := newHarness(t)
	c := h.backend.SeedAccount("c@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "C"})
	a := h.backend.SeedAccount("a@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "A"})
	legacy := h.backend.SeedBooking(c, a, "plumbing", "")
	h.loginAs(t, a)

	bookings := NewBookingGateway(h.client)
	updated, err := bookings.UpdateStatus(context.Background(), legacy.ID, domain.BookingAccepted)
	if err != nil {
		t.Fatalf("a legacy no-status booking must accept: %v", err)
	}
	if updated.Status != domain.BookingAccepted {
		t.Errorf("status = %q", updated.Status)
	}
}

// ---------------------------------------------------------------------------
// Chat through the fake backend
// ---------------------------------------------------------------------------

func TestChatGateway_ConversationIsTwoPartyAndOrdered(t *testing.T) {
	h := newHarness(t)
	me := h.backend.SeedAccount("me@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "Me"})
	them := h.backend.SeedAccount("them@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "Them"})
	other := h.backend.SeedAccount("other@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "Other"})

	base := time.Now().Add(-time.Hour)
	h.backend.SeedMessage(them, me, "second", base.Add(2*time.Minute))
	h.backend.SeedMessage(me, them, "first", base)
	h.backend.SeedMessage(me, other, "unrelated", base.Add(time.Minute))
	h.loginAs(t, me)

	chat := NewChatGateway(h.client)
	msgs, err := chat.Conversation(context.Background(), them.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("thread has %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("thread out of order: %q then %q", msgs[0].Content, msgs[1].Content)
	}
}

func TestChatGateway_SendAndSummaries(t *testing.T) {
	h := newHarness(t)
	me := h.backend.SeedAccount("me@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "Me"})
	them := h.backend.SeedAccount("them@example.com", "secret123", domain.RoleArtisan, domain.Profile{Name: "Them"})
	h.loginAs(t, me)

	chat := NewChatGateway(h.client)
	sent, err := chat.Send(context.Background(), them.ID, "are you available tomorrow?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent.ID == "" || sent.Sender != me.ID {
		t.Errorf("sent message = %+v", sent)
	}

	convos, err := chat.Conversations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(convos) != 1 || convos[0].UserID != them.ID {
		t.Fatalf("summaries = %+v", convos)
	}
	if convos[0].LastMessage != "are you available tomorrow?" {
		t.Errorf("last message = %q", convos[0].LastMessage)
	}
}

// ---------------------------------------------------------------------------
// Notifications through the fake backend
// ---------------------------------------------------------------------------

func TestNotificationGateway_RoundTrip(t *testing.T) {
	h := newHarness(t)
	user := h.backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	other := h.backend.SeedAccount("o@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "O"})
	first := h.backend.SeedNotification(user, domain.NotificationBookingUpdate, "Booking accepted", "Bosco accepted your request")
	h.backend.SeedNotification(user, domain.NotificationPromo, "Rainy season deal", "20% off plumbing this week")
	h.backend.SeedNotification(other, domain.NotificationMessage, "New message", "not yours")
	h.loginAs(t, user)

	notifications := NewNotificationGateway(h.client)
	ctx := context.Background()

	list, err := notifications.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list has %d notifications, want the caller's 2", len(list))
	}
	for _, n := range list {
		if n.Read {
			t.Errorf("notification %s starts read", n.ID)
		}
	}

	if err := notifications.MarkRead(ctx, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err = notifications.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range list {
		if n.ID == first.ID && !n.Read {
			t.Error("marked notification still unread")
		}
		if n.ID != first.ID && n.Read {
			t.Errorf("notification %s read without being marked", n.ID)
		}
	}

	if err := notifications.MarkAllRead(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err = notifications.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range list {
		if !n.Read {
			t.Errorf("notification %s unread after mark-all", n.ID)
		}
	}
}

func TestNotificationGateway_MarkReadUnknownID(t *testing.T) {
	h := newHarness(t)
	user := h.backend.SeedAccount("u@example.com", "secret123", domain.RoleCustomer, domain.Profile{Name: "U"})
	h.loginAs(t, user)

	err := NewNotificationGateway(h.client).MarkRead(context.Background(), "does-not-exist")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 *APIError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Uploads
// ---------------------------------------------------------------------------

func TestArtisanGateway_UploadJoinsServerRoot(t *testing.T) {
	h := newHarness(t)
	artisans := NewArtisanGateway(h.client)

	url, err := artisans.UploadImage(context.Background(), tempImage(t, "portrait.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "http://") || !strings.Contains(url, "/uploads/") {
		t.Errorf("upload URL = %q, want it joined onto the server root", url)
	}
	// The path is served from the server root, not under /api.
	if strings.Contains(url, "/api/") {
		t.Errorf("upload URL %q must not live under the API prefix", url)
	}
}

func TestUpload_MultipartFieldAndMIME(t *testing.T) {
	var gotField, gotMIME, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		part, err := reader.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotField = part.FormName()
		gotMIME = part.Header.Get("Content-Type")
		gotFilename = part.FileName()
		w.Write([]byte(`{"imageUrl":"/uploads/x.webp"}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/api", ServerURL: srv.URL, Logger: discardLogger})
	if _, err := NewUserGateway(client).UploadImage(context.Background(), tempImage(t, "photo.webp")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotField != "image" {
		t.Errorf("form field = %q, want image", gotField)
	}
	if gotMIME != "image/webp" {
		t.Errorf("part MIME = %q, want image/webp", gotMIME)
	}
	if gotFilename != "photo.webp" {
		t.Errorf("filename = %q", gotFilename)
	}
}

func TestInferImageMIME(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.png", "image/png"},
		{"photo.JPG", "image/jpg"},
		{"photo.webp", "image/webp"},
		{"noextension", "image/jpeg"},
	}
	for _, c := range cases {
		if got := inferImageMIME(c.filename); got != c.want {
			t.Errorf("inferImageMIME(%q) = %q, want %q", c.filename, got, c.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Request shaping and error envelope
// ---------------------------------------------------------------------------

func TestArtisanGateway_SearchSendsCoordinatesOnlyAsAPair(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/api", Logger: discardLogger})
	artisans := NewArtisanGateway(client)
	ctx := context.Background()

	if _, err := artisans.Search(ctx, ports.ArtisanSearch{Category: "plumbing", Lat: 4.05}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gotQuery, "lat") {
		t.Errorf("half a coordinate pair was sent: %q", gotQuery)
	}

	if _, err := artisans.Search(ctx, ports.ArtisanSearch{Lat: 4.05, Long: 9.7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotQuery, "lat=4.05") || !strings.Contains(gotQuery, "long=9.7") {
		t.Errorf("coordinate pair missing: %q", gotQuery)
	}
}

func TestClient_BearerHeaderOnlyWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	token := ""
	client := NewClient(Options{
		BaseURL: srv.URL + "/api",
		Token:   func(context.Context) string { return token },
		Logger:  discardLogger,
	})
	artisans := NewArtisanGateway(client)
	ctx := context.Background()

	if _, err := artisans.Search(ctx, ports.ArtisanSearch{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("anonymous request carried %q", gotAuth)
	}

	token = "tok_123"
	if _, err := artisans.Search(ctx, ports.ArtisanSearch{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok_123" {
		t.Errorf("Authorization = %q, want Bearer tok_123", gotAuth)
	}
}

func TestClient_NonJSONErrorBodyFallsBackToOperationName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/api", Logger: discardLogger})
	_, err := NewArtisanGateway(client).Search(context.Background(), ports.ArtisanSearch{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "fetch artisans failed" {
		t.Errorf("fallback message = %q", apiErr.Message)
	}
}

func TestClient_GuardedCallWithoutHookStillReturnsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"jwt expired"}`))
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/api", Logger: discardLogger})
	if _, err := NewBookingGateway(client).List(context.Background()); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
}
