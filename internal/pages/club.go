package pages

import (
	"context"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// ClubAPI is what the club screen calls. *hubsdk.Client satisfies it.
type ClubAPI interface {
	GetClub(ctx context.Context, id int64) (*hubsdk.Club, error)
	JoinClub(ctx context.Context, id int64) error
	LeaveClub(ctx context.Context, id int64) error
}

// Club is the detail screen of one club.
type Club struct {
	api  ClubAPI
	sess Session
	club *optimistic.Cell[*hubsdk.Club]
}

// NewClub returns an empty screen. Call Load before Join or Leave.
func NewClub(api ClubAPI, sess Session) *Club {
	return &Club{
		api:  api,
		sess: sess,
		club: optimistic.NewCell[*hubsdk.Club](nil),
	}
}

// Load fetches the club. Membership flags depend on the caller, so it waits
// for the session first.
func (c *Club) Load(ctx context.Context, id int64) error {
	if _, err := c.sess.Wait(ctx); err != nil {
		return err
	}

	club, err := c.api.GetClub(ctx, id)
	if err != nil {
		return err
	}
	c.club.Set(club)
	return nil
}

// Club returns the club as shown, or nil before Load.
func (c *Club) Club() *hubsdk.Club {
	return c.club.Get()
}

// Join marks the user as a member immediately. On success the server's copy
// replaces the local one; on failure the previous state comes back.
func (c *Club) Join(ctx context.Context) error {
	cur, err := c.ready(ctx)
	if err != nil || cur.IsMember {
		return err
	}

	joined := *cur
	joined.IsMember = true
	joined.MemberCount++

	return c.club.MutateReplace(ctx,
		func(*hubsdk.Club) *hubsdk.Club { return &joined },
		func(ctx context.Context) (*hubsdk.Club, error) {
			if err := c.api.JoinClub(ctx, cur.ID); err != nil {
				return nil, err
			}
			fresh, err := c.api.GetClub(ctx, cur.ID)
			if err != nil {
				// The join went through; keep the local guess.
				return &joined, nil
			}
			return fresh, nil
		},
	)
}

// Leave drops the membership immediately and puts it back if the server
// refuses.
func (c *Club) Leave(ctx context.Context) error {
	cur, err := c.ready(ctx)
	if err != nil || !cur.IsMember {
		return err
	}

	return c.club.Mutate(ctx,
		func(club *hubsdk.Club) *hubsdk.Club {
			next := *club
			next.IsMember = false
			next.MemberCount = max(next.MemberCount-1, 0)
			return &next
		},
		func(ctx context.Context) error {
			return c.api.LeaveClub(ctx, cur.ID)
		},
	)
}

func (c *Club) ready(ctx context.Context) (*hubsdk.Club, error) {
	if _, err := signedIn(ctx, c.sess); err != nil {
		return nil, err
	}
	cur := c.club.Get()
	if cur == nil {
		return nil, ErrNotLoaded
	}
	return cur, nil
}
