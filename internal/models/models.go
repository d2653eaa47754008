package models

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleEmployee:
		return true
	}
	return false
}

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Sentiment is the categorical tag attached to a feedback record.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists every valid sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	FullName     string `json:"full_name" db:"full_name"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	TeamID       *int64 `json:"team_id" db:"team_id"`
}

// InTeam reports whether the user is a member of the given team.
func (u *User) InTeam(teamID int64) bool {
	return u != nil && u.TeamID != nil && *u.TeamID == teamID
}

type Team struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	ManagerID int64  `json:"manager_id" db:"manager_id"`
}

type Feedback struct {
	ID             int64     `json:"id" db:"id"`
	AuthorID       int64     `json:"author_id" db:"author_id"`
	RecipientID    int64     `json:"recipient_id" db:"recipient_id"`
	Strengths      string    `json:"strengths" db:"strengths"`
	AreasToImprove string    `json:"areas_to_improve" db:"areas_to_improve"`
	Sentiment      Sentiment `json:"sentiment" db:"sentiment"`
	Acknowledged   bool      `json:"acknowledged" db:"acknowledged"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// Display names resolved by the store from the users table.
	AuthorName    string `json:"author"`
	RecipientName string `json:"recipient"`
}

// TeamMember is an employee profile together with the feedback addressed to them.
type TeamMember struct {
	User
	FeedbackHistory []Feedback `json:"feedback_history"`
}

// NoTeamName is reported on a manager dashboard when the manager has no team.
const NoTeamName = "No Team Assigned"

type ManagerDashboard struct {
	TeamName        string              `json:"team_name"`
	FeedbackCount   int64               `json:"feedback_count"`
	SentimentTrends map[Sentiment]int64 `json:"sentiment_trends"`
	TeamMembers     []TeamMember        `json:"team_members"`
}

type EmployeeDashboard struct {
	FeedbackTimeline []Feedback `json:"feedback_timeline"`
}
