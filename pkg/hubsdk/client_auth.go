package hubsdk

import (
	"context"
	"net/http"
)

// ExchangeInitData trades a launch payload for the caller's identity. The
// server creates the user on first sight.
func (c *Client) ExchangeInitData(ctx context.Context, raw string) (*User, error) {
	resp, err := call[ExchangeResponse](ctx, c, http.MethodPost, "/api/auth/telegram", ExchangeRequest{InitData: raw})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Me returns the identity the current credential belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	u, err := get[User](ctx, c, "/api/users/me")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifySchool links a school account to the current user. The server checks
// the credentials against the school platform and updates role and stats.
func (c *Client) VerifySchool(ctx context.Context, login, password string) error {
	return callNoContent(ctx, c, http.MethodPost, "/api/auth/school", SchoolAuthRequest{
		Username: login,
		Password: password,
	})
}
