package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/hubtest"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// DemoAdmin and DemoStudent are the accounts a seeded mock server knows.
var (
	DemoAdmin   = initdata.User{ID: 100001, FirstName: "Ada", LastName: "Admin", Username: "ada_admin"}
	DemoStudent = initdata.User{ID: 100002, FirstName: "Sam", LastName: "Student", Username: "sam"}
)

// MockServer serves the in-memory API for local development, along with
// /metrics.
type MockServer struct {
	cfg    Config
	logger *slog.Logger

	hub    *hubtest.Server
	server *http.Server
}

// NewMockServer builds the mock API. Nothing listens until Run.
func NewMockServer(cfg Config, logger *slog.Logger, gatherer prometheus.Gatherer) *MockServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	m := &MockServer{cfg: cfg, logger: logger}
	m.hub = hubtest.New(
		hubtest.WithBotToken(cfg.BotToken),
		hubtest.WithLogger(logger),
		hubtest.WithRateLimit(cfg.MockRateLimit),
	)
	if cfg.MockSeed {
		seedDemo(m.hub)
	}

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(m.hub.Handler())

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MockPort),
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return m
}

// Hub exposes the fake API for seeding and payload minting.
func (m *MockServer) Hub() *hubtest.Server { return m.hub }

func (m *MockServer) Handler() http.Handler { return m.server.Handler }

// Run starts the server and blocks until shutdown is requested.
func (m *MockServer) Run() error {
	m.logger.Info("mock api starting", "port", m.cfg.MockPort, "version", BuildVersion)
	if m.cfg.MockSeed {
		m.logger.Info("demo accounts",
			"admin_init_data", m.hub.InitData(DemoAdmin),
			"student_init_data", m.hub.InitData(DemoStudent),
		)
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- m.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		m.logger.Info("shutdown signal received", "signal", sig)

		if err := m.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gives outstanding requests the grace period to finish.
func (m *MockServer) Shutdown() error {
	m.logger.Info("shutting down mock api...")

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := m.server.Shutdown(ctx); err != nil {
		m.logger.Error("graceful server shutdown failed", "error", err)
		if err := m.server.Close(); err != nil {
			m.logger.Error("error closing server", "error", err)
		}
		return err
	}

	m.logger.Info("mock api stopped")
	return nil
}

func seedDemo(hub *hubtest.Server) {
	hub.AddUser(DemoAdmin, hubsdk.RoleAdmin)
	hub.AddUser(DemoStudent, hubsdk.RoleStudent)
	hub.SetCoins(DemoStudent.ID, 120)
	hub.AddSchoolAccount(hubtest.SchoolAccount{Login: "sstudent", Password: "password", Level: 5, XP: 4200, AuditRatio: 1.1})

	hub.SeedNews(hubsdk.NewsInput{Title: "Welcome to campus", Content: "The mini-app is live.", Tag: "general"})
	hub.SeedNews(hubsdk.NewsInput{Title: "Exam week", Content: "Libraries stay open until midnight.", Tag: "study"})

	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 14)
	hub.SeedHackathon(hubsdk.HackathonInput{
		Title:       "Campus Hack",
		Description: "48 hours, any stack.",
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
	})

	hub.SeedClub(hubsdk.ClubInput{Name: "Go Club", Description: "Gophers welcome.", Schedule: "Wed 18:00"})
	hub.SeedClub(hubsdk.ClubInput{Name: "Chess", Description: "Blitz and classical.", Schedule: "Fri 17:00"})

	hub.SeedShopItem(hubsdk.ShopItemInput{Name: "Hoodie", PriceCoins: 100, Stock: 10})
	hub.SeedShopItem(hubsdk.ShopItemInput{Name: "Sticker pack", PriceCoins: 15, Stock: 50})

	hub.SeedGovMember(hubsdk.GovMemberInput{Name: "Ada Admin", RoleTitle: "President", DisplayOrder: 1})
	hub.SeedGovMember(hubsdk.GovMemberInput{Name: "Sam Student", RoleTitle: "Treasurer", DisplayOrder: 2})
}
