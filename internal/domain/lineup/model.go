package lineup

import (
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
)

// Availability is the medical/selection state of a squad player.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityDoubtful  Availability = "doubtful"
	AvailabilityInjured   Availability = "injured"
)

// Player is a squad member. The roster owns it; the lineup engine only
// references it by ID.
type Player struct {
	ID           int64
	Name         string
	Position     string
	Availability Availability
	Number       int
}

// Match is an upcoming fixture a lineup can be attached to.
type Match struct {
	ID           int64
	Name         string
	OpponentName string
	Venue        string
	KickoffAt    time.Time
	Result       string
}

// FormationRef is the backend's identifier for a formation code.
type FormationRef struct {
	ID   int64
	Code formation.Code
	Name string
}

// RoleAssignment is one persisted starter, keyed by tactical role number.
type RoleAssignment struct {
	Role         int
	PlayerID     int64
	JerseyNumber int
	Captain      bool
}

// Record is a persisted lineup. Assignments is only populated once the
// detail has been fetched.
type Record struct {
	ID            int64
	MatchID       int64
	TeamID        int64
	FormationID   int64
	FormationCode formation.Code
	IsStarting    bool
	MinuteApplied int
	MatchName     string
	MatchDate     time.Time
	Assignments   []RoleAssignment
}

// CreateLineupInput is the payload submitted when saving a lineup.
type CreateLineupInput struct {
	MatchID     int64
	TeamID      int64
	FormationID int64
	IsStarting  bool
	Assignments []RoleAssignment
}
