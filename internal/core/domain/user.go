package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleArtisan  = "artisan"
	RoleAdmin    = "admin"
)

// Artisan onboarding progresses monotonically through these steps. The
// router never sends an artisan back past a completed step.
const (
	OnboardingStepQuestionnaire = 0
	OnboardingStepIDUpload      = 1
	OnboardingStepComplete      = 2
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Profile holds the mutable, role-dependent part of a user record. All
// fields are optional; the backend merges partial updates server-side.
type Profile struct {
	Name           string       `json:"name"`
	Avatar         string       `json:"avatar,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Experience     string       `json:"experience,omitempty"`
	Location       *Coordinates `json:"location,omitempty"`
	Rating         float64      `json:"rating,omitempty"`
	ReviewCount    int          `json:"reviewCount,omitempty"`
	Available      bool         `json:"available,omitempty"`
	OnboardingStep int          `json:"onboardingStep"`
	Portfolio      []string     `json:"portfolio,omitempty"`
}

// User models an account as returned by the backend and as cached in the
// session store. The authoritative copy lives server-side; the cached copy
// is trusted only for routing and display.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsArtisan reports whether the user is a service provider.
func (u *User) IsArtisan() bool {
	return u.Role == RoleArtisan
}
