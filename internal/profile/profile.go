package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile exists for a user.
var ErrNotFound = errors.New("profile not found")

// Onboarding stages, in order. A profile is usable for digests only once it
// reaches StageDone with a non-empty condition.
const (
	StageAge              = "age"
	StageWeight           = "weight"
	StageMedications      = "medications"
	StageEmergencyContact = "emergency_contact"
	StageNewsPref         = "news_pref"
	StageCondition        = "condition"
	StageDone             = "done"
)

// Profile holds everything collected during onboarding for one user.
type Profile struct {
	UserID           string   `json:"user_id"`
	Condition        string   `json:"condition"`
	Age              int      `json:"age"`
	Weight           string   `json:"weight"`
	Medications      []string `json:"medications"`
	EmergencyContact string   `json:"emergency_contact"`
	NewsPref         string   `json:"news_pref"`
	NewsSources      []string `json:"news_sources"`
	Stage            string   `json:"onboarding_stage"`
}

// New returns a fresh profile at the start of onboarding.
func New(userID string) Profile {
	return Profile{
		UserID:      userID,
		Stage:       StageAge,
		NewsSources: []string{"bbc.com", "nytimes.com"},
	}
}

// Onboarded reports whether the profile can drive a digest run.
func (p Profile) Onboarded() bool {
	return p.Stage == StageDone && p.Condition != ""
}

// Source supplies profiles for digest generation. Read-only from the
// engine's perspective.
type Source interface {
	Get(ctx context.Context, userID string) (Profile, error)
}

// Sink persists profile updates. Owned by the onboarding flow.
type Sink interface {
	Put(ctx context.Context, p Profile) error
}

// Store combines both sides for implementations that back onboarding and
// digest generation at once.
type Store interface {
	Source
	Sink
}
