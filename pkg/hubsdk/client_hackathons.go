package hubsdk

import (
	"context"
	"net/http"
)

// ListHackathons lists hackathons, optionally filtered by status.
func (c *Client) ListHackathons(ctx context.Context, status string) ([]Hackathon, error) {
	return get[[]Hackathon](ctx, c, withQuery("/api/hackathons", "status", status))
}

func (c *Client) GetHackathon(ctx context.Context, id int64) (*Hackathon, error) {
	h, err := get[Hackathon](ctx, c, "/api/hackathons/"+itoa(id))
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) CreateHackathon(ctx context.Context, in HackathonInput) (*Hackathon, error) {
	h, err := call[Hackathon](ctx, c, http.MethodPost, "/api/hackathons", in)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) DeleteHackathon(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/hackathons/"+itoa(id), nil)
}

// ApplyToHackathon registers the current user's team. Applying twice is
// rejected with 409.
func (c *Client) ApplyToHackathon(ctx context.Context, id int64, teamName string) (*HackathonApplication, error) {
	a, err := call[HackathonApplication](ctx, c, http.MethodPost,
		"/api/hackathons/"+itoa(id)+"/apply", ApplyRequest{TeamName: teamName})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListHackathonApplications lists who applied. Admin only.
func (c *Client) ListHackathonApplications(ctx context.Context, id int64) ([]HackathonApplication, error) {
	return get[[]HackathonApplication](ctx, c, "/api/hackathons/"+itoa(id)+"/applications")
}
