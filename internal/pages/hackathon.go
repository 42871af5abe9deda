package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
)

// HackathonAPI is what the hackathon screen calls. *hubsdk.Client satisfies it.
type HackathonAPI interface {
	GetHackathon(ctx context.Context, id int64) (*hubsdk.Hackathon, error)
	ApplyToHackathon(ctx context.Context, id int64, teamName string) (*hubsdk.HackathonApplication, error)
}

// Hackathon is the detail screen of one hackathon and its application form.
type Hackathon struct {
	api  HackathonAPI
	sess Session

	mu          sync.Mutex
	hackathon   *hubsdk.Hackathon
	application *hubsdk.HackathonApplication
}

// NewHackathon returns an empty screen. Call Load before Apply.
func NewHackathon(api HackathonAPI, sess Session) *Hackathon {
	return &Hackathon{api: api, sess: sess}
}

// Load fetches hackathon id and forgets any application sent for the previous
// one.
func (h *Hackathon) Load(ctx context.Context, id int64) error {
	hk, err := h.api.GetHackathon(ctx, id)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hackathon = hk
	h.application = nil
	return nil
}

func (h *Hackathon) Hackathon() *hubsdk.Hackathon {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hackathon
}

// Application is the application sent from this screen, if any.
func (h *Hackathon) Application() *hubsdk.HackathonApplication {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.application
}

// Apply registers a team for the loaded hackathon. It needs a signed-in user.
func (h *Hackathon) Apply(ctx context.Context, teamName string) (*hubsdk.HackathonApplication, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if _, err := signedIn(ctx, h.sess); err != nil {
		return nil, err
	}

	hk := h.Hackathon()
	if hk == nil {
		return nil, ErrNotLoaded
	}
	if hk.Status == hubsdk.HackathonFinished {
		return nil, fmt.Errorf("%w: hackathon is finished", ErrInvalidInput)
	}

	app, err := h.api.ApplyToHackathon(ctx, hk.ID, teamName)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.application = app
	h.mu.Unlock()
	return app, nil
}
