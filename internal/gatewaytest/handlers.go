package gatewaytest

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	id, ok := s.byEmail[strings.ToLower(req.Email)]
	var acct *account
	if ok {
		acct = s.accounts[id]
	}
	s.mu.Unlock()

	if acct == nil {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	user := acct.user
	token, err := s.issueToken(&user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "token generation failed")
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: &user})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, "email, password and role are required")
	}

	s.mu.Lock()
	if _, exists := s.byEmail[strings.ToLower(req.Email)]; exists {
		s.mu.Unlock()
		return fail(c, http.StatusConflict, "Email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.mu.Unlock()
		return fail(c, http.StatusInternalServerError, "hash failed")
	}
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Role:      req.Role,
		Profile:   domain.Profile{Name: req.Name, Phone: req.Phone},
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	s.byEmail[strings.ToLower(req.Email)] = user.ID
	s.mu.Unlock()

	token, err := s.issueToken(&user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "token generation failed")
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: &user})
}

func (s *Server) handleSearchArtisans(c echo.Context) error {
	category := c.QueryParam("category")

	s.mu.Lock()
	defer s.mu.Unlock()

	artisans := []*domain.User{}
	for _, acct := range s.accounts {
		if acct.user.Role != domain.RoleArtisan {
			continue
		}
		if category != "" && !hasSkill(acct.user.Profile.Skills, category) {
			continue
		}
		u := acct.user
		artisans = append(artisans, &u)
	}
	sort.Slice(artisans, func(i, j int) bool { return artisans[i].ID < artisans[j].ID })
	return c.JSON(http.StatusOK, artisans)
}

func hasSkill(skills []string, category string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, category) {
			return true
		}
	}
	return false
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var update ports.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}

	p := &acct.user.Profile
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Avatar != nil {
		p.Avatar = *update.Avatar
	}
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.Skills != nil {
		p.Skills = update.Skills
	}
	if update.Experience != nil {
		p.Experience = *update.Experience
	}
	if update.Location != nil {
		p.Location = update.Location
	}
	if update.Available != nil {
		p.Available = *update.Available
	}
	if update.Portfolio != nil {
		p.Portfolio = update.Portfolio
	}

	u := acct.user
	return c.JSON(http.StatusOK, &u)
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, http.StatusBadRequest, "image field is required")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "unreadable image")
	}
	defer f.Close()
	if _, err := io.Copy(io.Discard, f); err != nil {
		return fail(c, http.StatusBadRequest, "unreadable image")
	}

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	return c.JSON(http.StatusOK, map[string]string{"imageUrl": "/uploads/" + name})
}

func (s *Server) handleQuestionnaire(c echo.Context) error {
	var req struct {
		Answers []string `json:"answers"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if len(req.Answers) != 10 {
		return fail(c, http.StatusBadRequest, "10 answers are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[c.Param("id")]
	if !ok || acct.user.Role != domain.RoleArtisan {
		return fail(c, http.StatusNotFound, "Artisan not found")
	}
	if acct.user.Profile.OnboardingStep < domain.OnboardingStepIDUpload {
		acct.user.Profile.OnboardingStep = domain.OnboardingStepIDUpload
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIDCard(c echo.Context) error {
	if _, err := c.FormFile("image"); err != nil {
		return fail(c, http.StatusBadRequest, "image field is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[c.Param("id")]
	if !ok || acct.user.Role != domain.RoleArtisan {
		return fail(c, http.StatusNotFound, "Artisan not found")
	}
	if acct.user.Profile.OnboardingStep < domain.OnboardingStepComplete {
		acct.user.Profile.OnboardingStep = domain.OnboardingStepComplete
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateBooking(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	var req ports.CreateBookingInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	artisan, ok := s.accounts[req.ArtisanID]
	if !ok || artisan.user.Role != domain.RoleArtisan {
		return fail(c, http.StatusNotFound, "Artisan not found")
	}

	s.nextSeq++
	booking := &domain.Booking{
		ID: fmt.Sprintf("bk_%04d", s.nextSeq),
		Customer: domain.BookingParty{
			ID:     caller.ID,
			Name:   caller.Profile.Name,
			Avatar: caller.Profile.Avatar,
		},
		Artisan: domain.BookingParty{
			ID:     artisan.user.ID,
			Name:   artisan.user.Profile.Name,
			Avatar: artisan.user.Profile.Avatar,
		},
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.BookingPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.bookings = append(s.bookings, booking)

	b := *booking
	return c.JSON(http.StatusCreated, &b)
}

// handleListBookings scopes by role: customers see the bookings they
// requested, artisans the ones assigned to them.
func (s *Server) handleListBookings(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	visible := []*domain.Booking{}
	for _, b := range s.bookings {
		if b.Customer.ID == caller.ID || b.Artisan.ID == caller.ID {
			clone := *b
			visible = append(visible, &clone)
		}
	}
	return c.JSON(http.StatusOK, visible)
}

func (s *Server) handleUpdateBookingStatus(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ID != c.Param("id") {
			continue
		}
		if b.Artisan.ID != caller.ID {
			return fail(c, http.StatusForbidden, "Not your booking")
		}
		next := domain.BookingStatus(req.Status)
		if !b.Status.CanTransitionTo(next) {
			return fail(c, http.StatusUnprocessableEntity, "Invalid status transition")
		}
		b.Status = next
		clone := *b
		return c.JSON(http.StatusOK, &clone)
	}
	return fail(c, http.StatusNotFound, "Booking not found")
}

func (s *Server) handleSendMessage(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	var req struct {
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.RecipientID == "" || req.Content == "" {
		return fail(c, http.StatusBadRequest, "recipientId and content are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &domain.Message{
		ID:        uuid.NewString(),
		Sender:    caller.ID,
		Recipient: req.RecipientID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages = append(s.messages, msg)

	clone := *msg
	return c.JSON(http.StatusCreated, &clone)
}

// handleConversation returns the two-party thread, creation time ascending.
func (s *Server) handleConversation(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}
	other := c.Param("otherUserId")

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := []*domain.Message{}
	for _, m := range s.messages {
		if (m.Sender == caller.ID && m.Recipient == other) || (m.Sender == other && m.Recipient == caller.ID) {
			clone := *m
			thread = append(thread, &clone)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].CreatedAt.Before(thread[j].CreatedAt) })
	return c.JSON(http.StatusOK, thread)
}

func (s *Server) handleConversations(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	latest := map[string]*domain.Message{}
	for _, m := range s.messages {
		var other string
		switch caller.ID {
		case m.Sender:
			other = m.Recipient
		case m.Recipient:
			other = m.Sender
		default:
			continue
		}
		if prev, ok := latest[other]; !ok || m.CreatedAt.After(prev.CreatedAt) {
			latest[other] = m
		}
	}

	summaries := []*domain.ConversationSummary{}
	for other, m := range latest {
		summary := &domain.ConversationSummary{
			UserID:      other,
			LastMessage: m.Content,
			LastAt:      m.CreatedAt,
		}
		if acct, ok := s.accounts[other]; ok {
			summary.Name = acct.user.Profile.Name
			summary.Avatar = acct.user.Profile.Avatar
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].LastAt.After(summaries[j].LastAt) })
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleListNotifications(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := []*domain.Notification{}
	for _, n := range s.notifications[caller.ID] {
		clone := *n
		list = append(list, &clone)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleMarkRead(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[caller.ID] {
		if n.ID == c.Param("id") {
			n.Read = true
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}
	}
	return fail(c, http.StatusNotFound, "Notification not found")
}

func (s *Server) handleMarkAllRead(c echo.Context) error {
	caller := s.caller(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[caller.ID] {
		n.Read = true
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
