// Package session holds the signed-in state of the mini-app: who the user is,
// whether that is still being worked out, and why it failed if it did.
//
// A Session is created once per launch and passed explicitly to whatever
// needs it. Bootstrap trades the launch credential for an identity exactly
// once; Refresh quietly re-reads the identity after actions that change it
// (a purchase, a school verification). Readers take State snapshots, which are
// replaced wholesale on every change and never mutated.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
)

// Gateway is the part of the API a Session needs. *hubsdk.Client satisfies it.
type Gateway interface {
	ExchangeInitData(ctx context.Context, raw string) (*hubsdk.User, error)
	Me(ctx context.Context) (*hubsdk.User, error)
}

// State is an immutable snapshot of the session. The User it points to must be
// treated as read-only.
type State struct {
	User    *hubsdk.User
	Loading bool
	Err     string
}

// Authenticated reports whether bootstrap finished with an identity.
func (s State) Authenticated() bool { return !s.Loading && s.User != nil }

// Anonymous reports whether bootstrap finished without an identity, either
// because there was no credential or because the exchange failed.
func (s State) Anonymous() bool { return !s.Loading && s.User == nil }

// Session is the signed-in state of one launch. It is safe for concurrent use.
type Session struct {
	api    Gateway
	creds  initdata.Retriever
	logger *slog.Logger

	state   atomic.Pointer[State]
	once    sync.Once
	settled chan struct{}

	// mu serialises state transitions; notifyMu keeps subscriber callbacks in
	// transition order.
	mu       sync.Mutex
	notifyMu sync.Mutex
	subs     map[int]func(State)
	nextSub  int
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session in the loading state. Nothing happens until Bootstrap
// is called.
func New(api Gateway, creds initdata.Retriever, opts ...Option) *Session {
	if creds == nil {
		creds = initdata.None
	}

	s := &Session{
		api:     api,
		creds:   creds,
		logger:  slog.Default(),
		settled: make(chan struct{}),
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state.Store(&State{Loading: true})
	return s
}

// State returns the current snapshot.
func (s *Session) State() State {
	return *s.state.Load()
}

// User returns the current identity, or nil.
func (s *Session) User() *hubsdk.User {
	return s.state.Load().User
}

// Bootstrap resolves the identity for this launch. Only the first call does
// any work; later and concurrent calls wait for it and return its outcome.
//
// With no launch credential the session becomes anonymous without calling the
// API. Otherwise the credential is exchanged; a failed exchange leaves the
// session anonymous with Err set to the failure message and is logged, but is
// not returned as an error.
func (s *Session) Bootstrap(ctx context.Context) State {
	s.once.Do(func() {
		s.bootstrap(ctx)
	})
	return s.State()
}

func (s *Session) bootstrap(ctx context.Context) {
	defer close(s.settled)

	raw, ok := s.creds.Retrieve(ctx)
	if !ok {
		s.logger.Debug("no launch credential, continuing anonymously")
		s.replace(func(State) State { return State{} })
		return
	}

	user, err := s.api.ExchangeInitData(ctx, raw)
	if err != nil {
		s.logger.Error("session bootstrap failed", "err", err)
		msg := hubsdk.Message(err)
		s.replace(func(State) State { return State{Err: msg} })
		return
	}

	s.logger.Info("session established", "user_id", user.ID, "role", user.Role)
	s.replace(func(State) State { return State{User: user} })
}

// Refresh re-reads the identity from the API and, on success, replaces the
// user while keeping Loading and Err as they are. Failures are logged at debug
// level and otherwise ignored. Concurrent refreshes are not merged; whichever
// response arrives last wins.
func (s *Session) Refresh(ctx context.Context) {
	user, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Debug("session refresh failed", "err", err)
		return
	}

	s.replace(func(cur State) State {
		cur.User = user
		return cur
	})
}

// Wait blocks until bootstrap has settled or ctx is done.
func (s *Session) Wait(ctx context.Context) (State, error) {
	select {
	case <-s.settled:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

// Subscribe registers fn to be called with every new state, in the order the
// states were installed. fn runs synchronously on the goroutine that changed
// the state and must not call back into the session other than through State
// and User. The returned function unsubscribes and may be called more than
// once.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	s.notifyMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.notifyMu.Lock()
			delete(s.subs, id)
			s.notifyMu.Unlock()
		})
	}
}

// replace installs next(current) as the new state and notifies subscribers.
func (s *Session) replace(next func(State) State) {
	s.mu.Lock()
	st := next(*s.state.Load())
	s.state.Store(&st)

	// Take notifyMu before releasing mu so notifications cannot overtake one
	// another.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.subscribers() {
		fn(st)
	}
}

// subscribers returns the callbacks in registration order. notifyMu must be
// held.
func (s *Session) subscribers() []func(State) {
	fns := make([]func(State), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
