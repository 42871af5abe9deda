package pages

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/optimistic"
)

// GovAPI is what the student government admin screen calls.
// *hubsdk.Client satisfies it.
type GovAPI interface {
	ListGovMembers(ctx context.Context) ([]hubsdk.GovMember, error)
	CreateGovMember(ctx context.Context, in hubsdk.GovMemberInput) (*hubsdk.GovMember, error)
	DeleteGovMember(ctx context.Context, id int64) error
}

// GovAdmin manages the student government list. Every action is admin only.
type GovAdmin struct {
	api     GovAPI
	sess    Session
	members *optimistic.Cell[[]hubsdk.GovMember]
}

// NewGovAdmin returns an empty admin list. Call Load to fill it.
func NewGovAdmin(api GovAPI, sess Session) *GovAdmin {
	return &GovAdmin{
		api:     api,
		sess:    sess,
		members: optimistic.NewCell[[]hubsdk.GovMember](nil),
	}
}

func (g *GovAdmin) Load(ctx context.Context) error {
	if _, err := admin(ctx, g.sess); err != nil {
		return err
	}

	members, err := g.api.ListGovMembers(ctx)
	if err != nil {
		return err
	}
	g.members.Set(members)
	return nil
}

func (g *GovAdmin) Members() []hubsdk.GovMember {
	return g.members.Get()
}

// Create adds a member after checking that name and role title are set.
func (g *GovAdmin) Create(ctx context.Context, in hubsdk.GovMemberInput) (*hubsdk.GovMember, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.RoleTitle = strings.TrimSpace(in.RoleTitle)
	if in.Name == "" || in.RoleTitle == "" {
		return nil, fmt.Errorf("%w: name and role title are required", ErrInvalidInput)
	}
	if _, err := admin(ctx, g.sess); err != nil {
		return nil, err
	}

	m, err := g.api.CreateGovMember(ctx, in)
	if err != nil {
		return nil, err
	}

	insert(g.members, *m, func(a, b hubsdk.GovMember) int {
		return cmp.Compare(a.DisplayOrder, b.DisplayOrder)
	})
	return m, nil
}

// Delete removes the member from the list at once and restores it if the
// server refuses.
func (g *GovAdmin) Delete(ctx context.Context, id int64) error {
	if _, err := admin(ctx, g.sess); err != nil {
		return err
	}

	return remove(ctx, g.members,
		func(m hubsdk.GovMember) bool { return m.ID == id },
		func(ctx context.Context) error { return g.api.DeleteGovMember(ctx, id) },
	)
}
