package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
)

// ProfileView says which variant of the profile screen to show.
type ProfileView int

const (
	ProfileLoading ProfileView = iota
	ProfileAnonymous
	ProfileUser
)

func (v ProfileView) String() string {
	switch v {
	case ProfileLoading:
		return "loading"
	case ProfileAnonymous:
		return "anonymous"
	case ProfileUser:
		return "user"
	}
	return "unknown"
}

// SchoolVerifier links a school account. *hubsdk.Client satisfies it.
type SchoolVerifier interface {
	VerifySchool(ctx context.Context, login, password string) error
}

// Profile is the user's own screen: identity, check-in code and school
// verification.
type Profile struct {
	api  SchoolVerifier
	sess Session
}

// NewProfile returns the profile screen for sess.
func NewProfile(api SchoolVerifier, sess Session) *Profile {
	return &Profile{api: api, sess: sess}
}

// View returns the variant to render and, for ProfileUser, the user.
func (p *Profile) View() (ProfileView, *hubsdk.User) {
	st := p.sess.State()
	switch {
	case st.Loading:
		return ProfileLoading, nil
	case st.User == nil:
		return ProfileAnonymous, nil
	}
	return ProfileUser, st.User
}

// QRCode is the text encoded in the user's check-in code. Staff scan it with
// the Scanner.
func (p *Profile) QRCode() string {
	if _, u := p.View(); u != nil {
		return strconv.FormatInt(u.ID, 10)
	}
	return ""
}

// VerifySchool links a school account and re-reads the identity so role and
// stats reflect it.
func (p *Profile) VerifySchool(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return fmt.Errorf("%w: login and password are required", ErrInvalidInput)
	}
	if _, err := signedIn(ctx, p.sess); err != nil {
		return err
	}

	if err := p.api.VerifySchool(ctx, login, password); err != nil {
		return err
	}

	p.sess.Refresh(ctx)
	return nil
}
