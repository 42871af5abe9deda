package hubsdk

import (
	"context"
	"net/http"
)

// ListClubs lists clubs with membership flags for the current user.
func (c *Client) ListClubs(ctx context.Context) ([]Club, error) {
	return get[[]Club](ctx, c, "/api/clubs")
}

func (c *Client) GetClub(ctx context.Context, id int64) (*Club, error) {
	club, err := get[Club](ctx, c, "/api/clubs/"+itoa(id))
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (c *Client) CreateClub(ctx context.Context, in ClubInput) (*Club, error) {
	club, err := call[Club](ctx, c, http.MethodPost, "/api/clubs", in)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (c *Client) DeleteClub(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/clubs/"+itoa(id), nil)
}

func (c *Client) JoinClub(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodPost, "/api/clubs/"+itoa(id)+"/join", nil)
}

func (c *Client) LeaveClub(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/clubs/"+itoa(id)+"/leave", nil)
}
