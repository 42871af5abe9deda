package pages

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// ClubAdminAPI is what the club editor calls. *hubsdk.Client satisfies it.
type ClubAdminAPI interface {
	ListClubs(ctx context.Context) ([]hubsdk.Club, error)
	CreateClub(ctx context.Context, in hubsdk.ClubInput) (*hubsdk.Club, error)
	DeleteClub(ctx context.Context, id int64) error
}

// ClubAdmin creates and removes clubs. Every action is admin only.
type ClubAdmin struct {
	api   ClubAdminAPI
	sess  Session
	clubs *optimistic.Cell[[]hubsdk.Club]
}

func NewClubAdmin(api ClubAdminAPI, sess Session) *ClubAdmin {
	return &ClubAdmin{
		api:   api,
		sess:  sess,
		clubs: optimistic.NewCell[[]hubsdk.Club](nil),
	}
}

func (c *ClubAdmin) Load(ctx context.Context) error {
	if _, err := admin(ctx, c.sess); err != nil {
		return err
	}

	clubs, err := c.api.ListClubs(ctx)
	if err != nil {
		return err
	}
	c.clubs.Set(clubs)
	return nil
}

func (c *ClubAdmin) Clubs() []hubsdk.Club {
	return c.clubs.Get()
}

// Create adds a club. Only the name is required.
func (c *ClubAdmin) Create(ctx context.Context, in hubsdk.ClubInput) (*hubsdk.Club, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Schedule = strings.TrimSpace(in.Schedule)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := admin(ctx, c.sess); err != nil {
		return nil, err
	}

	club, err := c.api.CreateClub(ctx, in)
	if err != nil {
		return nil, err
	}
	insert(c.clubs, *club, func(a, b hubsdk.Club) int { return cmp.Compare(a.ID, b.ID) })
	return club, nil
}

// Delete drops the club from the list at once and restores it if the server
// refuses.
func (c *ClubAdmin) Delete(ctx context.Context, id int64) error {
	if _, err := admin(ctx, c.sess); err != nil {
		return err
	}

	return remove(ctx, c.clubs,
		func(club hubsdk.Club) bool { return club.ID == id },
		func(ctx context.Context) error { return c.api.DeleteClub(ctx, id) },
	)
}
