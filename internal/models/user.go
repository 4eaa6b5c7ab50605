package models

import "time"

// Account roles used for route guarding. Every account starts as a plain
// user; admins arbitrate disputes.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User types are descriptive tags, not permissions: any account may both
// sell and buy.
const (
	UserTypeFreelancer = "freelancer"
	UserTypeClient     = "client"
)

const (
	SubscriptionInactive = "inactive"
	SubscriptionActive   = "active"
)

type User struct {
	ID                 string          `json:"id"`
	Username           string          `json:"username"`
	Email              string          `json:"email"`
	Password           string          `json:"-"`
	UserType           string          `json:"user_type"`
	Role               string          `json:"role"`
	Skills             []string        `json:"skills"`
	Rating             float64         `json:"rating"`
	CompletedProjects  int             `json:"completed_projects"`
	Portfolio          []PortfolioItem `json:"portfolio"`
	Achievements       []PortfolioItem `json:"achievements"`
	PastWork           []PortfolioItem `json:"past_work"`
	SubscriptionStatus string          `json:"subscription_status"`
	SubscriptionExpiry *time.Time      `json:"subscription_expiry,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SubscriptionActive reports whether the paid gate is open at the given
// instant. The stored status alone is never trusted: the expiry timestamp is
// compared against the clock on every check, so a lapsed subscription closes
// the gate without any sweeper flipping the flag.
func (u *User) SubscriptionActive(now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionExpiry != nil && u.SubscriptionExpiry.After(now)
}

// PortfolioItem is an append-only showcase entry owned by a user.
type PortfolioItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // project | achievement | pastWork
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	ProjectURL  string    `json:"project_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
