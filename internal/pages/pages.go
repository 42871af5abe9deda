// Package pages holds the logic behind each screen of the mini-app: what it
// loads, which session state it needs, and how it updates its local copy
// before and after the server answers.
//
// Controllers are plain structs built with a gateway and the session. They
// keep no rendering state; callers read the current data through getters.
package pages

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/session"
)

var (
	// ErrNotSignedIn is returned when an action needs an identity and the
	// session finished without one.
	ErrNotSignedIn = errors.New("pages: sign in required")

	// ErrForbidden is returned by admin tools when the user is not an admin.
	ErrForbidden = errors.New("pages: admin access required")

	// ErrInvalidInput is wrapped by validation failures.
	ErrInvalidInput = errors.New("pages: invalid input")

	// ErrNotLoaded is returned when an action needs data Load has not fetched.
	ErrNotLoaded = errors.New("pages: not loaded")
)

// Session is the part of *session.Session the controllers use.
type Session interface {
	State() session.State
	Wait(ctx context.Context) (session.State, error)
	Refresh(ctx context.Context)
}

// signedIn waits for bootstrap to finish and returns the user.
func signedIn(ctx context.Context, sess Session) (*hubsdk.User, error) {
	st, err := sess.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if st.User == nil {
		return nil, ErrNotSignedIn
	}
	return st.User, nil
}

// admin is signedIn restricted to admins.
func admin(ctx context.Context, sess Session) (*hubsdk.User, error) {
	u, err := signedIn(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, ErrForbidden
	}
	return u, nil
}
