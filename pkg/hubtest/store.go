package hubtest

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
)

var (
	errNotFound         = errors.New("not found")
	errOutOfStock       = errors.New("item is out of stock")
	errNoCoins          = errors.New("insufficient coins")
	errAlreadyApplied   = errors.New("already applied to this hackathon")
	errAlreadyCheckedIn = errors.New("already checked in for this event today")
	errSchoolAuth       = errors.New("school authentication failed: invalid credentials")
)

// SchoolAccount is an account on the school platform that users can link
// through /api/auth/school.
type SchoolAccount struct {
	Login      string
	Password   string
	Level      int
	XP         int64
	AuditRatio float64
}

// store is the in-memory state behind the fake API. Every method returns
// copies so handlers can encode them without holding the lock.
type store struct {
	mu  sync.Mutex
	now func() time.Time
	seq int64

	users      map[int64]*hubsdk.User // by id
	byTelegram map[int64]int64        // telegram id -> id

	news         map[int64]hubsdk.News
	hackathons   map[int64]hubsdk.Hackathon
	applications []hubsdk.HackathonApplication
	clubs        map[int64]hubsdk.Club
	members      map[int64]map[int64]bool // club id -> user ids
	shop         map[int64]hubsdk.ShopItem
	purchases    []hubsdk.Purchase
	gov          map[int64]hubsdk.GovMember
	attendance   []hubsdk.Attendance
	school       map[string]SchoolAccount
}

func newStore(now func() time.Time) *store {
	return &store{
		now:        now,
		users:      make(map[int64]*hubsdk.User),
		byTelegram: make(map[int64]int64),
		news:       make(map[int64]hubsdk.News),
		hackathons: make(map[int64]hubsdk.Hackathon),
		clubs:      make(map[int64]hubsdk.Club),
		members:    make(map[int64]map[int64]bool),
		shop:       make(map[int64]hubsdk.ShopItem),
		gov:        make(map[int64]hubsdk.GovMember),
		school:     make(map[string]SchoolAccount),
	}
}

func (s *store) nextID() int64 {
	s.seq++
	return s.seq
}

// ============================================================================
// Users
// ============================================================================

// upsertUser creates the user on first sight and refreshes profile fields on
// later exchanges. Role, coins and school data are kept.
func (s *store) upsertUser(tu initdata.User) hubsdk.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id, ok := s.byTelegram[tu.ID]; ok {
		u := s.users[id]
		u.Username = tu.Username
		u.FirstName = tu.FirstName
		u.LastName = tu.LastName
		u.PhotoURL = tu.PhotoURL
		u.UpdatedAt = now
		return *u
	}

	u := &hubsdk.User{
		ID:         s.nextID(),
		TelegramID: tu.ID,
		Username:   tu.Username,
		FirstName:  tu.FirstName,
		LastName:   tu.LastName,
		PhotoURL:   tu.PhotoURL,
		Role:       hubsdk.RoleGuest,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[u.ID] = u
	s.byTelegram[u.TelegramID] = u.ID
	return *u
}

func (s *store) userByTelegram(telegramID int64) (hubsdk.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byTelegram[telegramID]
	if !ok {
		return hubsdk.User{}, false
	}
	return *s.users[id], true
}

func (s *store) userByID(id int64) (hubsdk.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return hubsdk.User{}, false
	}
	return *u, true
}

// updateUser applies fn to the user with telegram id tid.
func (s *store) updateUser(tid int64, fn func(*hubsdk.User)) (hubsdk.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byTelegram[tid]
	if !ok {
		return hubsdk.User{}, false
	}
	u := s.users[id]
	fn(u)
	u.UpdatedAt = s.now()
	return *u, true
}

func (s *store) linkSchool(userID int64, login, password string) (hubsdk.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.school[login]
	if !ok || acc.Password != password {
		return hubsdk.User{}, errSchoolAuth
	}

	u, ok := s.users[userID]
	if !ok {
		return hubsdk.User{}, errNotFound
	}
	u.SchoolLogin = acc.Login
	u.SchoolLevel = acc.Level
	u.SchoolXP = acc.XP
	u.AuditRatio = acc.AuditRatio
	if u.Role == hubsdk.RoleGuest {
		u.Role = hubsdk.RoleStudent
	}
	u.UpdatedAt = s.now()
	return *u, nil
}

// ============================================================================
// News
// ============================================================================

func (s *store) listNews(tag string) []hubsdk.News {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hubsdk.News, 0, len(s.news))
	for _, n := range s.news {
		if tag == "" || strings.EqualFold(n.Tag, tag) {
			out = append(out, n)
		}
	}
	// Newest first.
	slices.SortFunc(out, func(a, b hubsdk.News) int { return cmp.Compare(b.ID, a.ID) })
	return out
}

func (s *store) getNews(id int64) (hubsdk.News, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.news[id]
	return n, ok
}

func (s *store) putNews(id int64, in hubsdk.NewsInput, authorID *int64) (hubsdk.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n, exists := s.news[id]
	if id != 0 && !exists {
		return hubsdk.News{}, errNotFound
	}
	if !exists {
		n = hubsdk.News{ID: s.nextID(), AuthorID: authorID, CreatedAt: now}
	}
	n.Title = in.Title
	n.Content = in.Content
	n.Tag = in.Tag
	n.ImageURL = in.ImageURL
	n.UpdatedAt = now

	s.news[n.ID] = n
	return n, nil
}

func (s *store) deleteNews(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.news[id]; !ok {
		return errNotFound
	}
	delete(s.news, id)
	return nil
}

// ============================================================================
// Hackathons
// ============================================================================

func (s *store) listHackathons(status string) []hubsdk.Hackathon {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hubsdk.Hackathon, 0, len(s.hackathons))
	for _, h := range s.hackathons {
		if status == "" || h.Status == status {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b hubsdk.Hackathon) int { return a.StartDate.Compare(b.StartDate) })
	return out
}

func (s *store) getHackathon(id int64) (hubsdk.Hackathon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hackathons[id]
	return h, ok
}

func (s *store) createHackathon(in hubsdk.HackathonInput) hubsdk.Hackathon {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = hubsdk.HackathonUpcoming
	}
	h := hubsdk.Hackathon{
		ID:          s.nextID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   s.now(),
	}
	s.hackathons[h.ID] = h
	return h
}

func (s *store) deleteHackathon(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hackathons[id]; !ok {
		return errNotFound
	}
	delete(s.hackathons, id)
	return nil
}

func (s *store) apply(hackathonID, userID int64, team string) (hubsdk.HackathonApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hackathons[hackathonID]; !ok {
		return hubsdk.HackathonApplication{}, errNotFound
	}
	for _, a := range s.applications {
		if a.HackathonID == hackathonID && a.UserID == userID {
			return hubsdk.HackathonApplication{}, errAlreadyApplied
		}
	}

	a := hubsdk.HackathonApplication{
		ID:          s.nextID(),
		HackathonID: hackathonID,
		UserID:      userID,
		TeamName:    team,
		Status:      "pending",
		CreatedAt:   s.now(),
	}
	s.applications = append(s.applications, a)
	return a, nil
}

func (s *store) listApplications(hackathonID int64) []hubsdk.HackathonApplication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []hubsdk.HackathonApplication{}
	for _, a := range s.applications {
		if a.HackathonID != hackathonID {
			continue
		}
		if u, ok := s.users[a.UserID]; ok {
			cp := *u
			a.User = &cp
		}
		out = append(out, a)
	}
	return out
}

// ============================================================================
// Clubs
// ============================================================================

func (s *store) club(id, viewer int64) (hubsdk.Club, bool) {
	c, ok := s.clubs[id]
	if !ok {
		return c, false
	}
	c.MemberCount = len(s.members[id])
	c.IsMember = s.members[id][viewer]
	return c, true
}

func (s *store) listClubs(viewer int64) []hubsdk.Club {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hubsdk.Club, 0, len(s.clubs))
	for id := range s.clubs {
		c, _ := s.club(id, viewer)
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b hubsdk.Club) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *store) getClub(id, viewer int64) (hubsdk.Club, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.club(id, viewer)
}

func (s *store) createClub(in hubsdk.ClubInput) hubsdk.Club {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := hubsdk.Club{
		ID:          s.nextID(),
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Schedule:    in.Schedule,
		CreatedAt:   s.now(),
	}
	s.clubs[c.ID] = c
	s.members[c.ID] = make(map[int64]bool)
	return c
}

func (s *store) deleteClub(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[id]; !ok {
		return errNotFound
	}
	delete(s.clubs, id)
	delete(s.members, id)
	return nil
}

func (s *store) setMembership(clubID, userID int64, member bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clubs[clubID]; !ok {
		return errNotFound
	}
	if member {
		s.members[clubID][userID] = true
	} else {
		delete(s.members[clubID], userID)
	}
	return nil
}

// ============================================================================
// Shop
// ============================================================================

func (s *store) listShop() []hubsdk.ShopItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hubsdk.ShopItem, 0, len(s.shop))
	for _, it := range s.shop {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b hubsdk.ShopItem) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *store) getShopItem(id int64) (hubsdk.ShopItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.shop[id]
	return it, ok
}

func (s *store) createShopItem(in hubsdk.ShopItemInput) hubsdk.ShopItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := hubsdk.ShopItem{
		ID:          s.nextID(),
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		PriceCoins:  in.PriceCoins,
		Stock:       in.Stock,
		CreatedAt:   s.now(),
	}
	s.shop[it.ID] = it
	return it
}

func (s *store) deleteShopItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shop[id]; !ok {
		return errNotFound
	}
	delete(s.shop, id)
	return nil
}

// buy moves coins from the user to the shop and one unit of stock the other
// way, or changes nothing.
func (s *store) buy(itemID, userID int64) (hubsdk.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.shop[itemID]
	if !ok {
		return hubsdk.Purchase{}, errNotFound
	}
	u, ok := s.users[userID]
	if !ok {
		return hubsdk.Purchase{}, errNotFound
	}
	if it.Stock == 0 {
		return hubsdk.Purchase{}, errOutOfStock
	}
	if u.Coins < it.PriceCoins {
		return hubsdk.Purchase{}, errNoCoins
	}

	now := s.now()
	if it.Stock > 0 {
		it.Stock--
		s.shop[itemID] = it
	}
	u.Coins -= it.PriceCoins
	u.UpdatedAt = now

	p := hubsdk.Purchase{
		ID:         s.nextID(),
		UserID:     userID,
		ItemID:     itemID,
		ItemName:   it.Name,
		PriceCoins: it.PriceCoins,
		CreatedAt:  now,
	}
	s.purchases = append(s.purchases, p)
	return p, nil
}

// ============================================================================
// Student government
// ============================================================================

func (s *store) listGov() []hubsdk.GovMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]hubsdk.GovMember, 0, len(s.gov))
	for _, m := range s.gov {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b hubsdk.GovMember) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return out
}

func (s *store) createGov(in hubsdk.GovMemberInput) hubsdk.GovMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := hubsdk.GovMember{
		ID:           s.nextID(),
		Name:         in.Name,
		RoleTitle:    in.RoleTitle,
		PhotoURL:     in.PhotoURL,
		ContactURL:   in.ContactURL,
		DisplayOrder: in.DisplayOrder,
		CreatedAt:    s.now(),
	}
	s.gov[m.ID] = m
	return m
}

func (s *store) deleteGov(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gov[id]; !ok {
		return errNotFound
	}
	delete(s.gov, id)
	return nil
}

// ============================================================================
// Attendance
// ============================================================================

func (s *store) checkIn(in hubsdk.CheckInInput) (hubsdk.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[in.UserID]
	if !ok {
		return hubsdk.Attendance{}, errNotFound
	}

	now := s.now()
	y, m, d := now.Date()
	for _, a := range s.attendance {
		ay, am, ad := a.CreatedAt.Date()
		if a.UserID == in.UserID && a.EventName == in.EventName && ay == y && am == m && ad == d {
			return hubsdk.Attendance{}, errAlreadyCheckedIn
		}
	}

	u.Coins += in.Coins
	u.UpdatedAt = now

	a := hubsdk.Attendance{
		ID:           s.nextID(),
		UserID:       in.UserID,
		EventName:    in.EventName,
		CoinsAwarded: in.Coins,
		CreatedAt:    now,
	}
	s.attendance = append(s.attendance, a)
	return a, nil
}
