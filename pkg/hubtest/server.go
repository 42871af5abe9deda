// Package hubtest runs an in-memory stand-in for the campus API.
//
// It speaks the same wire format as the real service: launch payloads are
// checked with the bot token, errors come back as {"error": "..."}, and the
// credential exchange creates users on first sight. Tests use NewServer to
// get a running instance; the campus CLI serves Handler for local development.
//
//	srv := hubtest.NewServer(t)
//	admin := srv.AddUser(initdata.User{ID: 1, FirstName: "Root"}, hubsdk.RoleAdmin)
//	client := hubsdk.New(srv.URL, hubsdk.WithCredentials(initdata.Static(srv.InitData(admin))))
package hubtest

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/campus/pkg/httpx"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/slogx"
	"github.com/gorilla/mux"
)

// DefaultBotToken signs payloads when no token is configured.
const DefaultBotToken = "424242:hubtest-bot-token"

// Request is what the server saw of one call.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          string
}

// fault is a canned response returned instead of running the handler.
type fault struct {
	status int
	body   string
}

// Server is a fake campus API. It is safe for concurrent use; seeding helpers
// may be called while requests are in flight.
type Server struct {
	// URL is set when the server was started with NewServer or Start.
	URL string

	botToken  string
	maxAge    time.Duration
	logger    *slog.Logger
	rateLimit httpx.RateLimitConfig
	now       func() time.Time

	store   *store
	handler http.Handler
	httpSrv *httptest.Server

	mu       sync.Mutex
	requests []Request
	faults   map[string][]fault
	delays   map[string]time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithBotToken sets the token payloads are signed and checked with.
func WithBotToken(token string) Option {
	return func(s *Server) {
		if token != "" {
			s.botToken = token
		}
	}
}

// WithMaxAge sets how old a payload may be. Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(s *Server) {
		s.maxAge = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit limits each client IP. Disabled by default.
func WithRateLimit(cfg httpx.RateLimitConfig) Option {
	return func(s *Server) {
		s.rateLimit = cfg
	}
}

// WithClock replaces time.Now for timestamps, minted payloads and daily
// check-in windows. Payload freshness is still judged against the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a server without starting it. Serve it with Handler.
func New(opts ...Option) *Server {
	s := &Server{
		botToken: DefaultBotToken,
		maxAge:   initdata.DefaultMaxAge,
		logger:   slogx.Discard(),
		now:      func() time.Time { return time.Now().UTC() },
		faults:   make(map[string][]fault),
		delays:   make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = newStore(s.now)

	r := mux.NewRouter()
	s.routes(r)

	middlewares := []httpx.Middleware{
		slogx.HTTPMiddleware(s.logger),
		s.record,
	}
	if s.rateLimit.Enabled() {
		middlewares = append(middlewares, httpx.RateLimitByIP(s.rateLimit))
	}
	middlewares = append(middlewares, s.inject, s.authenticate)

	s.handler = httpx.Chain(r, middlewares...)
	return s
}

// NewServer starts a server on a loopback port and closes it when t ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := New(opts...)
	s.Start()
	t.Cleanup(s.Close)
	return s
}

// Start serves on a loopback port and sets URL.
func (s *Server) Start() {
	s.httpSrv = httptest.NewServer(s.handler)
	s.URL = s.httpSrv.URL
}

func (s *Server) Close() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) BotToken() string { return s.botToken }

// ============================================================================
// Seeding and inspection
// ============================================================================

// InitData signs a fresh launch payload for u.
func (s *Server) InitData(u initdata.User) string {
	raw, err := initdata.NewUserPayload(s.botToken, u, s.now())
	if err != nil {
		// initdata.User always marshals.
		panic(err)
	}
	return raw
}

// AddUser registers u as if it had exchanged a payload, with the given role.
func (s *Server) AddUser(u initdata.User, role hubsdk.Role) initdata.User {
	s.store.upsertUser(u)
	s.store.updateUser(u.ID, func(x *hubsdk.User) { x.Role = role })
	return u
}

// User returns the stored record for a messenger account.
func (s *Server) User(telegramID int64) (hubsdk.User, bool) {
	return s.store.userByTelegram(telegramID)
}

func (s *Server) SetRole(telegramID int64, role hubsdk.Role) {
	s.store.updateUser(telegramID, func(u *hubsdk.User) { u.Role = role })
}

func (s *Server) SetCoins(telegramID int64, coins int) {
	s.store.updateUser(telegramID, func(u *hubsdk.User) { u.Coins = coins })
}

// AddSchoolAccount makes an account available to /api/auth/school.
func (s *Server) AddSchoolAccount(acc SchoolAccount) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.school[acc.Login] = acc
}

func (s *Server) SeedNews(in hubsdk.NewsInput) hubsdk.News {
	n, _ := s.store.putNews(0, in, nil)
	return n
}

func (s *Server) SeedHackathon(in hubsdk.HackathonInput) hubsdk.Hackathon {
	return s.store.createHackathon(in)
}

func (s *Server) SeedClub(in hubsdk.ClubInput) hubsdk.Club {
	return s.store.createClub(in)
}

func (s *Server) SeedShopItem(in hubsdk.ShopItemInput) hubsdk.ShopItem {
	return s.store.createShopItem(in)
}

func (s *Server) ShopItem(id int64) (hubsdk.ShopItem, bool) {
	return s.store.getShopItem(id)
}

func (s *Server) SeedGovMember(in hubsdk.GovMemberInput) hubsdk.GovMember {
	return s.store.createGov(in)
}

// FailNext makes the next request matching method and path answer with status
// and the raw body instead of reaching the handler. Calls queue up.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.faults[key] = append(s.faults[key], fault{status: status, body: body})
}

// SetDelay holds every request matching method and path for d before it is
// handled. Zero removes the delay.
func (s *Server) SetDelay(method, path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if d <= 0 {
		delete(s.delays, key)
		return
	}
	s.delays[key] = d
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received for method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ============================================================================
// Middleware
// ============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			Body:          string(body),
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// inject applies configured delays and faults.
func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		delay := s.delays[key]
		var f *fault
		if queued := s.faults[key]; len(queued) > 0 {
			f = &queued[0]
			s.faults[key] = queued[1:]
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if f != nil {
			if strings.HasPrefix(strings.TrimSpace(f.body), "{") {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}

		next.ServeHTTP(w, r)
	})
}
