package pages_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/campus/internal/pages"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/hubtest"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/session"
	"github.com/aussiebroadwan/campus/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// env is a fake API, a client signed in as one user, and its bootstrapped
// session.
type env struct {
	srv    *hubtest.Server
	client *hubsdk.Client
	sess   *session.Session
	tgUser initdata.User
}

func newEnv(t *testing.T, role hubsdk.Role) *env {
	t.Helper()

	srv := hubtest.NewServer(t)
	tgUser := initdata.User{ID: 500, FirstName: "Dana"}
	creds := initdata.Static(srv.InitData(tgUser))

	client := hubsdk.New(srv.URL, hubsdk.WithCredentials(creds))
	sess := session.New(client, creds, session.WithLogger(slogx.Discard()))
	sess.Bootstrap(t.Context())
	srv.SetRole(tgUser.ID, role)
	sess.Refresh(t.Context())

	return &env{srv: srv, client: client, sess: sess, tgUser: tgUser}
}

func anonymousEnv(t *testing.T) *env {
	t.Helper()

	srv := hubtest.NewServer(t)
	client := hubsdk.New(srv.URL)
	sess := session.New(client, initdata.None, session.WithLogger(slogx.Discard()))
	sess.Bootstrap(t.Context())
	return &env{srv: srv, client: client, sess: sess}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	t.Run("loading", func(t *testing.T) {
		srv := hubtest.NewServer(t)
		client := hubsdk.New(srv.URL)
		sess := session.New(client, initdata.None, session.WithLogger(slogx.Discard()))

		view, u := pages.NewProfile(client, sess).View()
		require.Equal(t, pages.ProfileLoading, view)
		require.Nil(t, u)
	})

	t.Run("anonymous", func(t *testing.T) {
		e := anonymousEnv(t)
		p := pages.NewProfile(e.client, e.sess)

		view, _ := p.View()
		require.Equal(t, pages.ProfileAnonymous, view)
		require.Empty(t, p.QRCode())
		require.ErrorIs(t, p.VerifySchool(t.Context(), "x", "y"), pages.ErrNotSignedIn)
	})

	t.Run("verify school refreshes identity", func(t *testing.T) {
		e := newEnv(t, hubsdk.RoleGuest)
		e.srv.AddSchoolAccount(hubtest.SchoolAccount{Login: "dana", Password: "secret", Level: 4})
		p := pages.NewProfile(e.client, e.sess)

		view, u := p.View()
		require.Equal(t, pages.ProfileUser, view)
		require.False(t, u.Verified())
		require.NotEmpty(t, p.QRCode())

		require.ErrorIs(t, p.VerifySchool(t.Context(), "  ", "secret"), pages.ErrInvalidInput)

		err := p.VerifySchool(t.Context(), "dana", "nope")
		require.True(t, hubsdk.IsUnauthorized(err))

		require.NoError(t, p.VerifySchool(t.Context(), "dana", "secret"))
		_, u = p.View()
		require.True(t, u.Verified())
		require.Equal(t, hubsdk.RoleStudent, u.Role)
		require.Equal(t, 4, u.SchoolLevel)
	})
}

func TestShopBuy(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	item := e.srv.SeedShopItem(hubsdk.ShopItemInput{Name: "Mug", PriceCoins: 20, Stock: 2})
	e.srv.SetCoins(e.tgUser.ID, 30)

	shop := pages.NewShop(e.client, e.sess)
	require.NoError(t, shop.Load(t.Context()))
	require.Len(t, shop.Items(), 1)

	p, err := shop.Buy(t.Context(), item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, p.ItemID)
	require.Equal(t, 1, shop.Items()[0].Stock)
	require.Empty(t, shop.LastError())

	// The session picked up the new balance.
	require.Equal(t, 10, e.sess.User().Coins)

	_, err = shop.Buy(t.Context(), item.ID)
	require.True(t, hubsdk.IsStatus(err, http.StatusBadRequest))
	require.Equal(t, "insufficient coins", shop.LastError())
	require.Equal(t, 1, shop.Items()[0].Stock, "stock is restored after a refused purchase")

	stored, _ := e.srv.ShopItem(item.ID)
	require.Equal(t, 1, stored.Stock)
}

func TestShopBuyShowsStockDropWhileInFlight(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	item := e.srv.SeedShopItem(hubsdk.ShopItemInput{Name: "Sticker", PriceCoins: 1, Stock: 5})
	e.srv.SetCoins(e.tgUser.ID, 100)
	e.srv.SetDelay(http.MethodPost, "/api/shop/"+itoa(item.ID)+"/buy", 200*time.Millisecond)
	e.srv.FailNext(http.MethodPost, "/api/shop/"+itoa(item.ID)+"/buy", http.StatusInternalServerError, "")

	shop := pages.NewShop(e.client, e.sess)
	require.NoError(t, shop.Load(t.Context()))

	done := make(chan error, 1)
	go func() {
		_, err := shop.Buy(t.Context(), item.ID)
		done <- err
	}()

	require.Eventually(t, func() bool { return shop.Items()[0].Stock == 4 }, time.Second, time.Millisecond)

	err := <-done
	require.Equal(t, "HTTP 500", hubsdk.Message(err))
	require.Equal(t, 5, shop.Items()[0].Stock)
}

func TestShopBuyOutOfStockKeepsZero(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	item := e.srv.SeedShopItem(hubsdk.ShopItemInput{Name: "Rare", PriceCoins: 1, Stock: 0})
	e.srv.SetCoins(e.tgUser.ID, 100)

	shop := pages.NewShop(e.client, e.sess)
	require.NoError(t, shop.Load(t.Context()))

	_, err := shop.Buy(t.Context(), item.ID)
	require.Error(t, err)
	require.Equal(t, "item is out of stock", shop.LastError())
	require.Zero(t, shop.Items()[0].Stock)
}

func TestShopRequiresSignIn(t *testing.T) {
	t.Parallel()

	e := anonymousEnv(t)
	_, err := pages.NewShop(e.client, e.sess).Buy(t.Context(), 1)
	require.ErrorIs(t, err, pages.ErrNotSignedIn)
	require.Empty(t, e.srv.RequestsTo(http.MethodPost, "/api/shop/1/buy"))
}

func TestClubJoinLeave(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	seeded := e.srv.SeedClub(hubsdk.ClubInput{Name: "Robotics"})

	club := pages.NewClub(e.client, e.sess)
	require.ErrorIs(t, club.Join(t.Context()), pages.ErrNotLoaded)
	require.NoError(t, club.Load(t.Context(), seeded.ID))
	require.False(t, club.Club().IsMember)

	require.NoError(t, club.Join(t.Context()))
	require.True(t, club.Club().IsMember)
	require.Equal(t, 1, club.Club().MemberCount)

	require.NoError(t, club.Leave(t.Context()))
	require.False(t, club.Club().IsMember)
	require.Zero(t, club.Club().MemberCount)
}

func TestClubJoinRevertsOnFailure(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	seeded := e.srv.SeedClub(hubsdk.ClubInput{Name: "Chess"})
	path := "/api/clubs/" + itoa(seeded.ID) + "/join"

	club := pages.NewClub(e.client, e.sess)
	require.NoError(t, club.Load(t.Context(), seeded.ID))

	e.srv.FailNext(http.MethodPost, path, http.StatusServiceUnavailable, `{"error":"try later"}`)
	err := club.Join(t.Context())
	require.Equal(t, "try later", hubsdk.Message(err))
	require.False(t, club.Club().IsMember)
	require.Zero(t, club.Club().MemberCount)
}

func TestClubLeaveFloorsCount(t *testing.T) {
	t.Parallel()

	api := &stubClubs{club: hubsdk.Club{ID: 7, IsMember: true, MemberCount: 0}, leaveErr: errors.New("boom")}
	e := newEnv(t, hubsdk.RoleStudent)

	club := pages.NewClub(api, e.sess)
	require.NoError(t, club.Load(t.Context(), 7))

	api.leave = func() {
		require.Zero(t, club.Club().MemberCount)
		require.False(t, club.Club().IsMember)
	}
	require.EqualError(t, club.Leave(t.Context()), "boom")
	require.True(t, club.Club().IsMember)
}

type stubClubs struct {
	club     hubsdk.Club
	leaveErr error
	leave    func()
}

func (s *stubClubs) GetClub(context.Context, int64) (*hubsdk.Club, error) {
	c := s.club
	return &c, nil
}

func (s *stubClubs) JoinClub(context.Context, int64) error { return nil }

func (s *stubClubs) LeaveClub(context.Context, int64) error {
	if s.leave != nil {
		s.leave()
	}
	return s.leaveErr
}

func TestHackathonApply(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleStudent)
	hk := e.srv.SeedHackathon(hubsdk.HackathonInput{Title: "Autumn Hack", Status: hubsdk.HackathonActive})
	over := e.srv.SeedHackathon(hubsdk.HackathonInput{Title: "Old Hack", Status: hubsdk.HackathonFinished})

	page := pages.NewHackathon(e.client, e.sess)
	_, err := page.Apply(t.Context(), "Team")
	require.ErrorIs(t, err, pages.ErrNotLoaded)

	require.NoError(t, page.Load(t.Context(), hk.ID))
	_, err = page.Apply(t.Context(), "   ")
	require.ErrorIs(t, err, pages.ErrInvalidInput)

	app, err := page.Apply(t.Context(), "Lambdas")
	require.NoError(t, err)
	require.Equal(t, "Lambdas", app.TeamName)
	require.Same(t, app, page.Application())

	_, err = page.Apply(t.Context(), "Lambdas")
	require.True(t, hubsdk.IsStatus(err, http.StatusConflict))

	require.NoError(t, page.Load(t.Context(), over.ID))
	require.Nil(t, page.Application())
	_, err = page.Apply(t.Context(), "Late")
	require.ErrorIs(t, err, pages.ErrInvalidInput)
}

func TestHackathonApplyAnonymous(t *testing.T) {
	t.Parallel()

	e := anonymousEnv(t)
	hk := e.srv.SeedHackathon(hubsdk.HackathonInput{Title: "Open"})

	page := pages.NewHackathon(e.client, e.sess)
	require.NoError(t, page.Load(t.Context(), hk.ID))

	_, err := page.Apply(t.Context(), "Solo")
	require.ErrorIs(t, err, pages.ErrNotSignedIn)
}

func TestNews(t *testing.T) {
	t.Parallel()

	e := anonymousEnv(t)
	e.srv.SeedNews(hubsdk.NewsInput{Title: "A", Content: "a", Tag: "events"})
	b := e.srv.SeedNews(hubsdk.NewsInput{Title: "B", Content: "b", Tag: "study"})

	news := pages.NewNews(e.client)
	all, err := news.List(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	study, err := news.List(t.Context(), "study")
	require.NoError(t, err)
	require.Len(t, study, 1)

	got, err := news.Get(t.Context(), b.ID)
	require.NoError(t, err)
	require.Equal(t, "B", got.Title)
}

func TestGovAdmin(t *testing.T) {
	t.Parallel()

	t.Run("non admin is refused", func(t *testing.T) {
		e := newEnv(t, hubsdk.RoleStudent)
		gov := pages.NewGovAdmin(e.client, e.sess)

		require.ErrorIs(t, gov.Load(t.Context()), pages.ErrForbidden)
		_, err := gov.Create(t.Context(), hubsdk.GovMemberInput{Name: "X", RoleTitle: "Y"})
		require.ErrorIs(t, err, pages.ErrForbidden)
		require.ErrorIs(t, gov.Delete(t.Context(), 1), pages.ErrForbidden)
	})

	t.Run("create and delete", func(t *testing.T) {
		e := newEnv(t, hubsdk.RoleAdmin)
		e.srv.SeedGovMember(hubsdk.GovMemberInput{Name: "Vice", RoleTitle: "Vice President", DisplayOrder: 2})

		gov := pages.NewGovAdmin(e.client, e.sess)
		require.NoError(t, gov.Load(t.Context()))
		require.Len(t, gov.Members(), 1)

		_, err := gov.Create(t.Context(), hubsdk.GovMemberInput{Name: " ", RoleTitle: "President"})
		require.ErrorIs(t, err, pages.ErrInvalidInput)

		pres, err := gov.Create(t.Context(), hubsdk.GovMemberInput{Name: "Pres", RoleTitle: "President", DisplayOrder: 1})
		require.NoError(t, err)
		require.Equal(t, "Pres", gov.Members()[0].Name)

		require.NoError(t, gov.Delete(t.Context(), pres.ID))
		require.Len(t, gov.Members(), 1)
	})

	t.Run("delete reverts on failure", func(t *testing.T) {
		e := newEnv(t, hubsdk.RoleAdmin)
		m := e.srv.SeedGovMember(hubsdk.GovMemberInput{Name: "Sec", RoleTitle: "Secretary"})

		gov := pages.NewGovAdmin(e.client, e.sess)
		require.NoError(t, gov.Load(t.Context()))

		e.srv.FailNext(http.MethodDelete, "/api/gov/"+itoa(m.ID), http.StatusInternalServerError, "")
		require.Error(t, gov.Delete(t.Context(), m.ID))
		require.Len(t, gov.Members(), 1)
	})
}

func TestScanner(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleAdmin)
	guest := e.srv.AddUser(initdata.User{ID: 900, FirstName: "Visitor"}, hubsdk.RoleGuest)
	stored, _ := e.srv.User(guest.ID)

	scanner := pages.NewScanner(e.client, e.sess)

	_, err := scanner.CheckIn(t.Context(), stored.ID, "  ", 5)
	require.ErrorIs(t, err, pages.ErrInvalidInput)

	_, err = scanner.CheckInCode(t.Context(), "not-a-number", "Meetup", 5)
	require.ErrorIs(t, err, pages.ErrInvalidInput)

	a, err := scanner.CheckInCode(t.Context(), itoa(stored.ID), "Meetup", 0)
	require.NoError(t, err)
	require.Equal(t, pages.DefaultCheckInCoins, a.CoinsAwarded)

	a, err = scanner.CheckIn(t.Context(), stored.ID, "Workshop", 25)
	require.NoError(t, err)
	require.Equal(t, 25, a.CoinsAwarded)

	after, _ := e.srv.User(guest.ID)
	require.Equal(t, 35, after.Coins)
}

func TestScannerRequiresAdmin(t *testing.T) {
	t.Parallel()

	e := newEnv(t, hubsdk.RoleClubLeader)
	_, err := pages.NewScanner(e.client, e.sess).CheckIn(t.Context(), 1, "Meetup", 10)
	require.ErrorIs(t, err, pages.ErrForbidden)
}
