package hubsdk

import (
	"context"
	"net/http"
)

// CheckIn records attendance for a scanned user and awards coins. A user can
// check in to the same event once per day.
func (c *Client) CheckIn(ctx context.Context, in CheckInInput) (*Attendance, error) {
	a, err := call[Attendance](ctx, c, http.MethodPost, "/api/attendance/check-in", in)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
