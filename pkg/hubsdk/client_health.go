package hubsdk

import "context"

// Health checks that the API is up. It needs no credential.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	h, err := get[HealthResponse](ctx, c, "/api/health")
	if err != nil {
		return nil, err
	}
	return &h, nil
}
