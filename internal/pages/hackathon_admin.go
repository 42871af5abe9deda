package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// HackathonAdminAPI is what the hackathon editor calls. *hubsdk.Client
// satisfies it.
type HackathonAdminAPI interface {
	ListHackathons(ctx context.Context, status string) ([]hubsdk.Hackathon, error)
	CreateHackathon(ctx context.Context, in hubsdk.HackathonInput) (*hubsdk.Hackathon, error)
	DeleteHackathon(ctx context.Context, id int64) error
	ListHackathonApplications(ctx context.Context, id int64) ([]hubsdk.HackathonApplication, error)
}

// HackathonAdmin manages hackathons of every status and shows who applied.
type HackathonAdmin struct {
	api        HackathonAdminAPI
	sess       Session
	hackathons *optimistic.Cell[[]hubsdk.Hackathon]
}

func NewHackathonAdmin(api HackathonAdminAPI, sess Session) *HackathonAdmin {
	return &HackathonAdmin{
		api:        api,
		sess:       sess,
		hackathons: optimistic.NewCell[[]hubsdk.Hackathon](nil),
	}
}

func (h *HackathonAdmin) Load(ctx context.Context) error {
	if _, err := admin(ctx, h.sess); err != nil {
		return err
	}

	list, err := h.api.ListHackathons(ctx, "")
	if err != nil {
		return err
	}
	h.hackathons.Set(list)
	return nil
}

// Hackathons returns the loaded list ordered by start date.
func (h *HackathonAdmin) Hackathons() []hubsdk.Hackathon {
	return h.hackathons.Get()
}

// Create adds a hackathon. Title, description and both dates are required,
// and the end may not come before the start. An empty status means upcoming.
func (h *HackathonAdmin) Create(ctx context.Context, in hubsdk.HackathonInput) (*hubsdk.Hackathon, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "" || in.Description == "":
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	case in.EndDate.Before(in.StartDate):
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	switch in.Status {
	case "", hubsdk.HackathonUpcoming, hubsdk.HackathonActive, hubsdk.HackathonFinished:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	if _, err := admin(ctx, h.sess); err != nil {
		return nil, err
	}

	hk, err := h.api.CreateHackathon(ctx, in)
	if err != nil {
		return nil, err
	}
	insert(h.hackathons, *hk, func(a, b hubsdk.Hackathon) int { return a.StartDate.Compare(b.StartDate) })
	return hk, nil
}

// Delete drops the hackathon from the list at once and restores it if the
// server refuses.
func (h *HackathonAdmin) Delete(ctx context.Context, id int64) error {
	if _, err := admin(ctx, h.sess); err != nil {
		return err
	}

	return remove(ctx, h.hackathons,
		func(hk hubsdk.Hackathon) bool { return hk.ID == id },
		func(ctx context.Context) error { return h.api.DeleteHackathon(ctx, id) },
	)
}

// Applications lists the teams that applied to one hackathon.
func (h *HackathonAdmin) Applications(ctx context.Context, id int64) ([]hubsdk.HackathonApplication, error) {
	if _, err := admin(ctx, h.sess); err != nil {
		return nil, err
	}
	return h.api.ListHackathonApplications(ctx, id)
}
