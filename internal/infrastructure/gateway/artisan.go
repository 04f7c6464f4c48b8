package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// ArtisanGateway implements ports.ArtisanAPI over /artisan.
type ArtisanGateway struct {
	client *Client
}

func NewArtisanGateway(client *Client) *ArtisanGateway {
	return &ArtisanGateway{client: client}
}

func (g *ArtisanGateway) Search(ctx context.Context, filter ports.ArtisanSearch) ([]*domain.User, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Lat != 0 && filter.Long != 0 {
		query.Set("lat", strconv.FormatFloat(filter.Lat, 'f', -1, 64))
		query.Set("long", strconv.FormatFloat(filter.Long, 'f', -1, 64))
	}

	var artisans []*domain.User
	err := g.client.doJSON(ctx, call{
		group:  groupArtisan,
		op:     "fetch artisans",
		method: http.MethodGet,
		path:   "/artisan",
		query:  query,
	}, &artisans)
	if err != nil {
		return nil, err
	}
	return artisans, nil
}

func (g *ArtisanGateway) UpdateProfile(ctx context.Context, artisanID string, update ports.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	err := g.client.doJSON(ctx, call{
		group:  groupArtisan,
		op:     "update profile",
		method: http.MethodPut,
		path:   "/artisan/" + artisanID + "/profile",
		body:   update,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UploadImage posts the image and joins the returned path onto the server
// root: uploads are served from the server root, not under the API prefix.
func (g *ArtisanGateway) UploadImage(ctx context.Context, path string) (string, error) {
	var res struct {
		ImageURL string `json:"imageUrl"`
	}
	err := g.client.doUpload(ctx, call{
		group:  groupArtisan,
		op:     "upload image",
		method: http.MethodPost,
		path:   "/artisan/upload",
	}, path, &res)
	if err != nil {
		return "", err
	}
	return g.client.serverURL + res.ImageURL, nil
}

func (g *ArtisanGateway) SubmitQuestionnaire(ctx context.Context, artisanID string, answers []string) error {
	return g.client.doJSON(ctx, call{
		group:  groupArtisan,
		op:     "submit questionnaire",
		method: http.MethodPost,
		path:   "/artisan/" + artisanID + "/onboarding/questions",
		body:   map[string][]string{"answers": answers},
	}, nil)
}

func (g *ArtisanGateway) UploadIDCard(ctx context.Context, artisanID, path string) error {
	return g.client.doUpload(ctx, call{
		group:  groupArtisan,
		op:     "upload ID card",
		method: http.MethodPost,
		path:   "/artisan/" + artisanID + "/onboarding/id-card",
	}, path, nil)
}
