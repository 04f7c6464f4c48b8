package gateway

import (
	"context"
	"net/http"

	"github.com/fixit237/fixit-go/internal/core/ports"
)

// AuthGateway implements ports.AuthAPI over /auth.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	var res ports.AuthResult
	err := g.client.doJSON(ctx, call{
		group:  groupAuth,
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (g *AuthGateway) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	var res ports.AuthResult
	err := g.client.doJSON(ctx, call{
		group:  groupAuth,
		op:     "signup",
		method: http.MethodPost,
		path:   "/auth/signup",
		body: signupRequest{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Role:     input.Role,
			Phone:    input.Phone,
		},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
