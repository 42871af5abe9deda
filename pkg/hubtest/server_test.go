package hubtest_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/campus/pkg/httpx"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/hubtest"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/stretchr/testify/require"
)

var alice = initdata.User{ID: 777, FirstName: "Alice", Username: "alice"}

func send(t *testing.T, srv *hubtest.Server, method, path, auth, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func errorOf(t *testing.T, body string) string {
	t.Helper()

	var e httpx.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	return e.Error
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	code, body := send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"status":"ok"}`, body)
}

func TestExchange(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)

	t.Run("creates user on first sight", func(t *testing.T) {
		payload, err := json.Marshal(hubsdk.ExchangeRequest{InitData: srv.InitData(alice)})
		require.NoError(t, err)

		code, body := send(t, srv, http.MethodPost, "/api/auth/telegram", "", string(payload))
		require.Equal(t, http.StatusOK, code)

		var resp hubsdk.ExchangeResponse
		require.NoError(t, json.Unmarshal([]byte(body), &resp))
		require.Equal(t, alice.ID, resp.User.TelegramID)
		require.Equal(t, hubsdk.RoleGuest, resp.User.Role)

		u, ok := srv.User(alice.ID)
		require.True(t, ok)
		require.Equal(t, resp.User.ID, u.ID)
	})

	t.Run("rejects payload signed by another bot", func(t *testing.T) {
		forged, err := initdata.NewUserPayload("1:other", alice, time.Now())
		require.NoError(t, err)
		payload, err := json.Marshal(hubsdk.ExchangeRequest{InitData: forged})
		require.NoError(t, err)

		code, body := send(t, srv, http.MethodPost, "/api/auth/telegram", "", string(payload))
		require.Equal(t, http.StatusUnauthorized, code)
		require.True(t, strings.HasPrefix(errorOf(t, body), "invalid init data"))
	})

	t.Run("requires init_data", func(t *testing.T) {
		code, body := send(t, srv, http.MethodPost, "/api/auth/telegram", "", `{}`)
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "init_data is required", errorOf(t, body))
	})
}

func TestAuthenticationErrors(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	registered := srv.AddUser(alice, hubsdk.RoleStudent)
	stranger := initdata.User{ID: 9, FirstName: "Eve"}

	tests := []struct {
		name string
		auth string
		code int
		msg  string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Bearer abc", http.StatusUnauthorized, "invalid authorization format, expected: tma <initData>"},
		{"empty payload", "tma ", http.StatusUnauthorized, "invalid authorization format, expected: tma <initData>"},
		{"unknown user", "tma " + srv.InitData(stranger), http.StatusUnauthorized, "user not found, please authenticate first"},
		{"registered user", "tma " + srv.InitData(registered), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := send(t, srv, http.MethodGet, "/api/users/me", tt.auth, "")
			require.Equal(t, tt.code, code)
			if tt.msg != "" {
				require.Equal(t, tt.msg, errorOf(t, body))
			}
		})
	}

	t.Run("tampered payload", func(t *testing.T) {
		raw := strings.Replace(srv.InitData(registered), "Alice", "Mallory", 1)
		code, body := send(t, srv, http.MethodGet, "/api/users/me", "tma "+raw, "")
		require.Equal(t, http.StatusUnauthorized, code)
		require.True(t, strings.HasPrefix(errorOf(t, body), "invalid init data"))
	})
}

func TestPublicRoutesIgnoreMissingCredential(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	n := srv.SeedNews(hubsdk.NewsInput{Title: "Welcome", Content: "Hello", Tag: "general"})
	srv.SeedHackathon(hubsdk.HackathonInput{Title: "Spring Jam"})

	code, _ := send(t, srv, http.MethodGet, "/api/news", "", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = send(t, srv, http.MethodGet, "/api/news/"+strconv.FormatInt(n.ID, 10), "tma garbage", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = send(t, srv, http.MethodGet, "/api/hackathons", "", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = send(t, srv, http.MethodGet, "/api/hackathons/1/applications", "", "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = send(t, srv, http.MethodGet, "/api/clubs", "", "")
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminGate(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	student := srv.AddUser(alice, hubsdk.RoleStudent)
	admin := srv.AddUser(initdata.User{ID: 1, FirstName: "Root"}, hubsdk.RoleAdmin)
	body := `{"title":"t","content":"c"}`

	code, resp := send(t, srv, http.MethodPost, "/api/news", "tma "+srv.InitData(student), body)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "admin access required", errorOf(t, resp))

	code, resp = send(t, srv, http.MethodPost, "/api/news", "tma "+srv.InitData(admin), body)
	require.Equal(t, http.StatusCreated, code)

	var n hubsdk.News
	require.NoError(t, json.Unmarshal([]byte(resp), &n))
	require.Equal(t, "general", n.Tag)
	require.NotNil(t, n.AuthorID)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	admin := srv.AddUser(alice, hubsdk.RoleAdmin)

	code, body := send(t, srv, http.MethodGet, "/api/nope", "tma "+srv.InitData(admin), "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "not found", errorOf(t, body))

	code, _ = send(t, srv, http.MethodPatch, "/api/news/1", "tma "+srv.InitData(admin), "")
	require.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestInvalidBody(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	admin := srv.AddUser(alice, hubsdk.RoleAdmin)

	code, body := send(t, srv, http.MethodPost, "/api/clubs", "tma "+srv.InitData(admin), `{"name":`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid request body", errorOf(t, body))

	code, body = send(t, srv, http.MethodPost, "/api/clubs", "tma "+srv.InitData(admin), `{"name":"x","owner":1}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid request body", errorOf(t, body))
}

func TestFailNextAndRequests(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	srv.FailNext(http.MethodGet, "/api/health", http.StatusServiceUnavailable, `{"error":"maintenance"}`)
	srv.FailNext(http.MethodGet, "/api/health", http.StatusBadGateway, "upstream down")

	code, body := send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "maintenance", errorOf(t, body))

	code, body = send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusBadGateway, code)
	require.Equal(t, "upstream down", body)

	code, _ = send(t, srv, http.MethodGet, "/api/health", "tma x", "")
	require.Equal(t, http.StatusOK, code)

	reqs := srv.RequestsTo(http.MethodGet, "/api/health")
	require.Len(t, reqs, 3)
	require.Empty(t, reqs[0].Authorization)
	require.Equal(t, "tma x", reqs[2].Authorization)
}

func TestSetDelay(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t)
	srv.SetDelay(http.MethodGet, "/api/health", 50*time.Millisecond)

	start := time.Now()
	code, _ := send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, code)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	srv.SetDelay(http.MethodGet, "/api/health", 0)
	start = time.Now()
	send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := hubtest.NewServer(t, hubtest.WithRateLimit(httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}))

	for range 2 {
		code, _ := send(t, srv, http.MethodGet, "/api/health", "", "")
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := send(t, srv, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusTooManyRequests, code)
}

func TestMaxAge(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	srv := hubtest.NewServer(t, hubtest.WithClock(clock), hubtest.WithMaxAge(time.Hour))
	u := srv.AddUser(alice, hubsdk.RoleStudent)

	stale, err := initdata.NewUserPayload(srv.BotToken(), u, now.Add(-2*time.Hour))
	require.NoError(t, err)

	code, _ := send(t, srv, http.MethodGet, "/api/users/me", "tma "+stale, "")
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = send(t, srv, http.MethodGet, "/api/users/me", "tma "+srv.InitData(u), "")
	require.Equal(t, http.StatusOK, code)
}
