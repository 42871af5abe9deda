package hubsdk

import (
	"encoding/json"
	"strings"
	"time"
)

// ============================================================================
// Identity
// ============================================================================

// Role is the permission tier of a user.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleStudent    Role = "student"
	RoleClubLeader Role = "club_leader"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleStudent, RoleClubLeader, RoleAdmin:
		return true
	}
	return false
}

// UnmarshalJSON maps unknown, empty or null roles to guest, the least
// privileged tier.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		*r = RoleGuest
	}
	return nil
}

// User is the identity record the API keeps for a messenger account.
type User struct {
	ID          int64     `json:"id"`
	TelegramID  int64     `json:"telegram_id"`
	Username    string    `json:"username,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Role        Role      `json:"role"`
	SchoolLogin string    `json:"school_login,omitempty"`
	SchoolLevel int       `json:"school_level"`
	SchoolXP    int64     `json:"school_xp"`
	AuditRatio  float64   `json:"audit_ratio"`
	Coins       int       `json:"coins"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnmarshalJSON decodes a user whose role key may be absent. Such a user is a
// guest, so a decoded User never carries a role outside the known set.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	p := plain{Role: RoleGuest}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = User(p)
	return nil
}

// Verified reports whether the user linked a school account.
func (u *User) Verified() bool {
	return u != nil && u.SchoolLogin != ""
}

// IsAdmin reports whether the user may use admin tools.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the full name, then the username, then the messenger
// account id.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "user " + itoa(u.TelegramID)
}

// ============================================================================
// Content
// ============================================================================

type News struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Tag       string    `json:"tag"`
	AuthorID  *int64    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewsInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Tag      string `json:"tag"`
	ImageURL string `json:"image_url,omitempty"`
}

// Hackathon statuses used by the listing filter.
const (
	HackathonUpcoming = "upcoming"
	HackathonActive   = "active"
	HackathonFinished = "finished"
)

type Hackathon struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type HackathonInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type HackathonApplication struct {
	ID          int64     `json:"id"`
	HackathonID int64     `json:"hackathon_id"`
	UserID      int64     `json:"user_id"`
	TeamName    string    `json:"team_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	User        *User     `json:"user,omitempty"`
}

type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Schedule    string    `json:"schedule,omitempty"`
	MemberCount int       `json:"member_count"`
	IsMember    bool      `json:"is_member"`
	CreatedAt   time.Time `json:"created_at"`
}

type ClubInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
}

// ============================================================================
// Economy
// ============================================================================

// UnlimitedStock marks an item that never runs out. Any negative stock means
// the same.
const UnlimitedStock = -1

type ShopItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PriceCoins  int       `json:"price_coins"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

type ShopItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	PriceCoins  int    `json:"price_coins"`
	Stock       int    `json:"stock"`
}

type Purchase struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name,omitempty"`
	PriceCoins int       `json:"price_coins"`
	CreatedAt  time.Time `json:"created_at"`
}

type Attendance struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	EventName    string    `json:"event_name"`
	CoinsAwarded int       `json:"coins_awarded"`
	CreatedAt    time.Time `json:"created_at"`
}

type CheckInInput struct {
	UserID    int64  `json:"user_id"`
	EventName string `json:"event_name"`
	Coins     int    `json:"coins"`
}

// ============================================================================
// Student government
// ============================================================================

type GovMember struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	RoleTitle    string    `json:"role_title"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	ContactURL   string    `json:"contact_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type GovMemberInput struct {
	Name         string `json:"name"`
	RoleTitle    string `json:"role_title"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ContactURL   string `json:"contact_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// ============================================================================
// Wire envelopes
// ============================================================================

// ExchangeRequest is the body of the credential exchange.
type ExchangeRequest struct {
	InitData string `json:"init_data"`
}

// ExchangeResponse wraps the identity returned by the credential exchange.
type ExchangeResponse struct {
	User User `json:"user"`
}

type SchoolAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ApplyRequest struct {
	TeamName string `json:"team_name"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
