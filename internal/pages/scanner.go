package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
)

// DefaultCheckInCoins is awarded when the scanner form leaves coins empty or
// non-positive.
const DefaultCheckInCoins = 10

// CheckInAPI records attendance. *hubsdk.Client satisfies it.
type CheckInAPI interface {
	CheckIn(ctx context.Context, in hubsdk.CheckInInput) (*hubsdk.Attendance, error)
}

// Scanner is the admin check-in screen. Staff scan the code shown on a
// user's profile and award coins for attending an event.
type Scanner struct {
	api  CheckInAPI
	sess Session
}

// NewScanner returns the check-in screen for sess.
func NewScanner(api CheckInAPI, sess Session) *Scanner {
	return &Scanner{api: api, sess: sess}
}

// CheckIn records userID at event.
func (s *Scanner) CheckIn(ctx context.Context, userID int64, event string, coins int) (*hubsdk.Attendance, error) {
	event = strings.TrimSpace(event)
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if event == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if coins <= 0 {
		coins = DefaultCheckInCoins
	}
	if _, err := admin(ctx, s.sess); err != nil {
		return nil, err
	}

	return s.api.CheckIn(ctx, hubsdk.CheckInInput{
		UserID:    userID,
		EventName: event,
		Coins:     coins,
	})
}

// CheckInCode is CheckIn for the text read from a profile code.
func (s *Scanner) CheckInCode(ctx context.Context, code, event string, coins int) (*hubsdk.Attendance, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable code %q", ErrInvalidInput, code)
	}
	return s.CheckIn(ctx, id, event, coins)
}
