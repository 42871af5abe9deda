package hubtest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/httpx"
	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/slogx"
	"github.com/gorilla/mux"
)

// defaultCheckInCoins is awarded when a check-in names no amount.
const defaultCheckInCoins = 10

func (s *Server) routes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/auth/telegram", s.handleExchange).Methods(http.MethodPost)
	api.HandleFunc("/auth/school", s.handleSchool).Methods(http.MethodPost)
	api.HandleFunc("/users/me", s.handleMe).Methods(http.MethodGet)

	api.HandleFunc("/news", s.handleListNews).Methods(http.MethodGet)
	api.HandleFunc("/news", requireAdmin(s.handleCreateNews)).Methods(http.MethodPost)
	api.HandleFunc("/news/{id:[0-9]+}", s.handleGetNews).Methods(http.MethodGet)
	api.HandleFunc("/news/{id:[0-9]+}", requireAdmin(s.handleUpdateNews)).Methods(http.MethodPut)
	api.HandleFunc("/news/{id:[0-9]+}", requireAdmin(s.handleDeleteNews)).Methods(http.MethodDelete)

	api.HandleFunc("/hackathons", s.handleListHackathons).Methods(http.MethodGet)
	api.HandleFunc("/hackathons", requireAdmin(s.handleCreateHackathon)).Methods(http.MethodPost)
	api.HandleFunc("/hackathons/{id:[0-9]+}", s.handleGetHackathon).Methods(http.MethodGet)
	api.HandleFunc("/hackathons/{id:[0-9]+}", requireAdmin(s.handleDeleteHackathon)).Methods(http.MethodDelete)
	api.HandleFunc("/hackathons/{id:[0-9]+}/apply", s.handleApply).Methods(http.MethodPost)
	api.HandleFunc("/hackathons/{id:[0-9]+}/applications", requireAdmin(s.handleListApplications)).Methods(http.MethodGet)

	api.HandleFunc("/clubs", s.handleListClubs).Methods(http.MethodGet)
	api.HandleFunc("/clubs", requireAdmin(s.handleCreateClub)).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{id:[0-9]+}", s.handleGetClub).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{id:[0-9]+}", requireAdmin(s.handleDeleteClub)).Methods(http.MethodDelete)
	api.HandleFunc("/clubs/{id:[0-9]+}/join", s.handleMembership(true)).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{id:[0-9]+}/leave", s.handleMembership(false)).Methods(http.MethodDelete)

	api.HandleFunc("/shop", s.handleListShop).Methods(http.MethodGet)
	api.HandleFunc("/shop", requireAdmin(s.handleCreateShopItem)).Methods(http.MethodPost)
	api.HandleFunc("/shop/{id:[0-9]+}", requireAdmin(s.handleDeleteShopItem)).Methods(http.MethodDelete)
	api.HandleFunc("/shop/{id:[0-9]+}/buy", s.handleBuy).Methods(http.MethodPost)

	api.HandleFunc("/gov", s.handleListGov).Methods(http.MethodGet)
	api.HandleFunc("/gov", requireAdmin(s.handleCreateGov)).Methods(http.MethodPost)
	api.HandleFunc("/gov/{id:[0-9]+}", requireAdmin(s.handleDeleteGov)).Methods(http.MethodDelete)

	api.HandleFunc("/attendance/check-in", requireAdmin(s.handleCheckIn)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// viewerID is the id of the authenticated caller, or zero.
func viewerID(r *http.Request) int64 {
	u, _ := currentUser(r.Context())
	return u.ID
}

// decode reads the JSON body into v and writes a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		slogx.FromContext(r.Context()).Debug("decode request", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func blank(vs ...string) bool {
	for _, v := range vs {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// ============================================================================
// Health and identity
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, hubsdk.HealthResponse{Status: "ok"})
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.ExchangeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.InitData == "" {
		httpx.WriteError(w, http.StatusBadRequest, "init_data is required")
		return
	}

	if err := initdata.Validate(req.InitData, s.botToken, s.maxAge); err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid init data: "+err.Error())
		return
	}
	tu, err := initdata.ParseUser(req.InitData)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid init data: "+err.Error())
		return
	}

	u := s.store.upsertUser(tu)
	slogx.FromContext(r.Context()).Info("user authenticated", "user_id", u.ID, "telegram_id", u.TelegramID)
	httpx.WriteJSON(w, http.StatusOK, hubsdk.ExchangeResponse{User: u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := currentUser(r.Context())
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (s *Server) handleSchool(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.SchoolAuthRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.Username, req.Password) {
		httpx.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := s.store.linkSchool(viewerID(r), req.Username, req.Password)
	switch {
	case errors.Is(err, errSchoolAuth):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// ============================================================================
// News
// ============================================================================

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.listNews(r.URL.Query().Get("tag")))
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	n, ok := s.store.getNews(pathID(r))
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "news not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

func (s *Server) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.NewsInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Title, in.Content) {
		httpx.WriteError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if in.Tag == "" {
		in.Tag = "general"
	}

	author := viewerID(r)
	n, _ := s.store.putNews(0, in, &author)
	httpx.WriteJSON(w, http.StatusCreated, n)
}

func (s *Server) handleUpdateNews(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.NewsInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Title, in.Content) {
		httpx.WriteError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	n, err := s.store.putNews(pathID(r), in, nil)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "news not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNews(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteNews(pathID(r)); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "news not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Hackathons
// ============================================================================

func (s *Server) handleListHackathons(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.listHackathons(r.URL.Query().Get("status")))
}

func (s *Server) handleGetHackathon(w http.ResponseWriter, r *http.Request) {
	h, ok := s.store.getHackathon(pathID(r))
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "hackathon not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h)
}

func (s *Server) handleCreateHackathon(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.HackathonInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Title) {
		httpx.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	switch in.Status {
	case "", hubsdk.HackathonUpcoming, hubsdk.HackathonActive, hubsdk.HackathonFinished:
	default:
		httpx.WriteError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		httpx.WriteError(w, http.StatusBadRequest, "end_date must be after start_date")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, s.store.createHackathon(in))
}

func (s *Server) handleDeleteHackathon(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteHackathon(pathID(r)); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "hackathon not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req hubsdk.ApplyRequest
	if !decode(w, r, &req) {
		return
	}
	if blank(req.TeamName) {
		httpx.WriteError(w, http.StatusBadRequest, "team_name is required")
		return
	}

	a, err := s.store.apply(pathID(r), viewerID(r), req.TeamName)
	switch {
	case errors.Is(err, errNotFound):
		httpx.WriteError(w, http.StatusNotFound, "hackathon not found")
		return
	case errors.Is(err, errAlreadyApplied):
		httpx.WriteError(w, http.StatusConflict, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.store.getHackathon(pathID(r)); !ok {
		httpx.WriteError(w, http.StatusNotFound, "hackathon not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s.store.listApplications(pathID(r)))
}

// ============================================================================
// Clubs
// ============================================================================

func (s *Server) handleListClubs(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.listClubs(viewerID(r)))
}

func (s *Server) handleGetClub(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.getClub(pathID(r), viewerID(r))
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "club not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.ClubInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Name) {
		httpx.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, s.store.createClub(in))
}

func (s *Server) handleDeleteClub(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteClub(pathID(r)); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "club not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMembership(join bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.setMembership(pathID(r), viewerID(r), join); err != nil {
			httpx.WriteError(w, http.StatusNotFound, "club not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================================
// Shop
// ============================================================================

func (s *Server) handleListShop(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.listShop())
}

func (s *Server) handleCreateShopItem(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.ShopItemInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Name) || in.PriceCoins <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "name and a positive price_coins are required")
		return
	}
	if in.Stock < 0 {
		in.Stock = hubsdk.UnlimitedStock
	}
	httpx.WriteJSON(w, http.StatusCreated, s.store.createShopItem(in))
}

func (s *Server) handleDeleteShopItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteShopItem(pathID(r)); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.buy(pathID(r), viewerID(r))
	switch {
	case errors.Is(err, errNotFound):
		httpx.WriteError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, errOutOfStock), errors.Is(err, errNoCoins):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	slogx.FromContext(r.Context()).Info("item purchased", "item_id", p.ItemID, "price", p.PriceCoins)
	httpx.WriteJSON(w, http.StatusOK, p)
}

// ============================================================================
// Student government
// ============================================================================

func (s *Server) handleListGov(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, s.store.listGov())
}

func (s *Server) handleCreateGov(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.GovMemberInput
	if !decode(w, r, &in) {
		return
	}
	if blank(in.Name, in.RoleTitle) {
		httpx.WriteError(w, http.StatusBadRequest, "name and role_title are required")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, s.store.createGov(in))
}

func (s *Server) handleDeleteGov(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteGov(pathID(r)); err != nil {
		httpx.WriteError(w, http.StatusNotFound, "member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Attendance
// ============================================================================

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var in hubsdk.CheckInInput
	if !decode(w, r, &in) {
		return
	}
	if in.UserID == 0 || blank(in.EventName) {
		httpx.WriteError(w, http.StatusBadRequest, "user_id and event_name are required")
		return
	}
	if in.Coins <= 0 {
		in.Coins = defaultCheckInCoins
	}

	a, err := s.store.checkIn(in)
	switch {
	case errors.Is(err, errNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, errAlreadyCheckedIn):
		httpx.WriteError(w, http.StatusConflict, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}
