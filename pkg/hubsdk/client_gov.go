package hubsdk

import (
	"context"
	"net/http"
)

// ListGovMembers returns the student government ordered by display order.
func (c *Client) ListGovMembers(ctx context.Context) ([]GovMember, error) {
	return get[[]GovMember](ctx, c, "/api/gov")
}

func (c *Client) CreateGovMember(ctx context.Context, in GovMemberInput) (*GovMember, error) {
	m, err := call[GovMember](ctx, c, http.MethodPost, "/api/gov", in)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteGovMember(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/gov/"+itoa(id), nil)
}
