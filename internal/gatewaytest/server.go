// Package gatewaytest provides an in-memory implementation of the FixIt
// backend REST API, suitable for gateway and workflow tests and for local
// demos via `fixit fakeserver`. It mirrors the documented behavior only:
// bearer-token auth, JSON bodies, multipart image uploads, and the
// {"message": "..."} error envelope.
package gatewaytest

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

// account pairs a user record with its password hash.
type account struct {
	user         domain.User
	passwordHash []byte
}

// Server holds the in-memory world the fake API serves.
type Server struct {
	echo   *echo.Echo
	secret string

	mu            sync.Mutex
	accounts      map[string]*account // by user id
	byEmail       map[string]string   // email → user id
	bookings      []*domain.Booking
	messages      []*domain.Message
	notifications map[string][]*domain.Notification // by user id
	nextSeq       int

	// forceUnauthorized makes every authenticated endpoint answer 401,
	// regardless of token validity. Used to exercise forced logout.
	forceUnauthorized atomic.Bool
}

// New builds a Server with all routes registered. Serve it with
// httptest.NewServer(s.Handler()).
func New(secret string) *Server {
	s := &Server{
		secret:        secret,
		accounts:      make(map[string]*account),
		byEmail:       make(map[string]string),
		notifications: make(map[string][]*domain.Notification),
	}

	e := echo.New()
	e.HideBanner = true

	e.POST("/api/auth/login", s.handleLogin)
	e.POST("/api/auth/signup", s.handleSignup)

	e.GET("/api/artisan", s.handleSearchArtisans)
	e.PUT("/api/artisan/:id/profile", s.handleUpdateProfile, s.auth)
	e.POST("/api/artisan/upload", s.handleUpload)
	e.POST("/api/artisan/:id/onboarding/questions", s.handleQuestionnaire, s.auth)
	e.POST("/api/artisan/:id/onboarding/id-card", s.handleIDCard, s.auth)

	e.PUT("/api/user/:id/profile", s.handleUpdateProfile, s.auth)
	e.POST("/api/user/upload", s.handleUpload)

	e.GET("/api/booking", s.handleListBookings, s.auth)
	e.POST("/api/booking", s.handleCreateBooking, s.auth)
	e.PUT("/api/booking/:id/status", s.handleUpdateBookingStatus, s.auth)

	e.GET("/api/chat/conversations", s.handleConversations, s.auth)
	e.GET("/api/chat/:otherUserId", s.handleConversation, s.auth)
	e.POST("/api/chat", s.handleSendMessage, s.auth)

	e.GET("/api/notifications", s.handleListNotifications, s.auth)
	e.PUT("/api/notifications/:id/read", s.handleMarkRead, s.auth)
	e.PUT("/api/notifications/read-all", s.handleMarkAllRead, s.auth)

	s.echo = e
	return s
}

// Handler returns the HTTP handler for the fake API.
func (s *Server) Handler() http.Handler { return s.echo }

// ForceUnauthorized toggles blanket 401 responses on authenticated routes.
func (s *Server) ForceUnauthorized(on bool) { s.forceUnauthorized.Store(on) }

// fail renders the backend's error envelope.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// auth validates the bearer token and injects the caller's identity.
func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.forceUnauthorized.Load() {
			return fail(c, http.StatusUnauthorized, "jwt expired")
		}

		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return fail(c, http.StatusUnauthorized, "missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fail(c, http.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return fail(c, http.StatusUnauthorized, "invalid token")
		}

		userID, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		c.Set("user_id", userID)
		c.Set("role", role)
		return next(c)
	}
}

// issueToken signs an HS256 token for the user.
func (s *Server) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// caller returns the authenticated user for the request, or nil.
func (s *Server) caller(c echo.Context) *domain.User {
	userID, _ := c.Get("user_id").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[userID]; ok {
		u := acct.user
		return &u
	}
	return nil
}
