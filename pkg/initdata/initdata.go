package initdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	tma "github.com/telegram-mini-apps/init-data-golang"
)

// DefaultMaxAge is how long a launch payload is accepted after it was issued.
const DefaultMaxAge = 24 * time.Hour

var (
	// ErrInvalid reports a payload that failed signature or freshness checks.
	ErrInvalid = errors.New("initdata: invalid init data")

	// ErrNoUser reports a payload without a usable user object.
	ErrNoUser = errors.New("initdata: init data does not contain user information")
)

// User is the messenger account the payload was issued for.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Data is the decoded content of a launch payload.
type Data struct {
	User       User
	QueryID    string
	StartParam string
	AuthDate   time.Time
}

// Validate checks the payload signature against botToken and rejects payloads
// older than maxAge. A non-positive maxAge disables the age check.
func Validate(raw, botToken string, maxAge time.Duration) error {
	if maxAge < 0 {
		maxAge = 0
	}
	if err := tma.Validate(raw, botToken, maxAge); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Parse decodes raw without checking its signature. Call Validate first when
// the payload comes from an untrusted party.
func Parse(raw string) (Data, error) {
	parsed, err := tma.Parse(raw)
	if err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	d := Data{
		User: User{
			ID:           parsed.User.ID,
			FirstName:    parsed.User.FirstName,
			LastName:     parsed.User.LastName,
			Username:     parsed.User.Username,
			LanguageCode: parsed.User.LanguageCode,
			IsPremium:    parsed.User.IsPremium,
			PhotoURL:     parsed.User.PhotoURL,
		},
		QueryID:    parsed.QueryID,
		StartParam: parsed.StartParam,
	}
	if parsed.AuthDateRaw > 0 {
		d.AuthDate = parsed.AuthDate().UTC()
	}

	return d, nil
}

// ParseUser is Parse followed by a check that the payload names a user.
func ParseUser(raw string) (User, error) {
	d, err := Parse(raw)
	if err != nil {
		return User{}, err
	}
	if d.User.ID == 0 {
		return User{}, ErrNoUser
	}
	return d.User, nil
}

// Sign builds a payload the messenger would have issued for the given fields.
// auth_date is set from authDate and any hash in fields is replaced. It is
// used by development tooling and test doubles that stand in for the
// messenger.
func Sign(botToken string, fields url.Values, authDate time.Time) string {
	payload := make(map[string]string, len(fields))
	for k, vs := range fields {
		if k == "hash" || k == "auth_date" || len(vs) == 0 {
			continue
		}
		payload[k] = vs[0]
	}

	q := url.Values{}
	for k, v := range payload {
		q.Set(k, v)
	}
	q.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	q.Set("hash", tma.Sign(payload, botToken, authDate))
	return q.Encode()
}

// NewUserPayload signs a payload carrying user.
func NewUserPayload(botToken string, user User, authDate time.Time) (string, error) {
	b, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}

	fields := url.Values{}
	fields.Set("user", string(b))
	fields.Set("query_id", fmt.Sprintf("AAH%d", user.ID))

	return Sign(botToken, fields, authDate), nil
}
