package gateway

import (
	"context"
	"net/http"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// UserGateway implements ports.UserAPI over /user.
type UserGateway struct {
	client *Client
}

func NewUserGateway(client *Client) *UserGateway {
	return &UserGateway{client: client}
}

func (g *UserGateway) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	err := g.client.doJSON(ctx, call{
		group:  groupUser,
		op:     "update profile",
		method: http.MethodPut,
		path:   "/user/" + userID + "/profile",
		body:   update,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *UserGateway) UploadImage(ctx context.Context, path string) (string, error) {
	var res struct {
		ImageURL string `json:"imageUrl"`
	}
	err := g.client.doUpload(ctx, call{
		group:  groupUser,
		op:     "upload image",
		method: http.MethodPost,
		path:   "/user/upload",
	}, path, &res)
	if err != nil {
		return "", err
	}
	return res.ImageURL, nil
}
