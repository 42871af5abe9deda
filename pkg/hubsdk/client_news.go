package hubsdk

import (
	"context"
	"net/http"
)

// ListNews returns news posts, newest first. An empty tag lists everything.
func (c *Client) ListNews(ctx context.Context, tag string) ([]News, error) {
	return get[[]News](ctx, c, withQuery("/api/news", "tag", tag))
}

func (c *Client) GetNews(ctx context.Context, id int64) (*News, error) {
	n, err := get[News](ctx, c, "/api/news/"+itoa(id))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNews publishes a post. Admin only.
func (c *Client) CreateNews(ctx context.Context, in NewsInput) (*News, error) {
	n, err := call[News](ctx, c, http.MethodPost, "/api/news", in)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNews replaces a post. Admin only.
func (c *Client) UpdateNews(ctx context.Context, id int64, in NewsInput) (*News, error) {
	n, err := call[News](ctx, c, http.MethodPut, "/api/news/"+itoa(id), in)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNews removes a post. Admin only.
func (c *Client) DeleteNews(ctx context.Context, id int64) error {
	return callNoContent(ctx, c, http.MethodDelete, "/api/news/"+itoa(id), nil)
}
