package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UUIDList is a JSONB-backed list of entity ids.
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *UUIDList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			data = []byte(s)
		} else {
			return errors.New("uuid list: unsupported scan type")
		}
	}
	return json.Unmarshal(data, l)
}

type TrialStatus string

const (
	TrialStatusNotStarted TrialStatus = "not_started"
	TrialStatusActive     TrialStatus = "active"
	TrialStatusExpired    TrialStatus = "expired"
	TrialStatusConverted  TrialStatus = "converted"
)

// TrialState is a user's trial window plus the rotating supplier subset
// granted under limited access. It is mutated only by the external rotation
// job; the access gate reads it.
type TrialState struct {
	UserID           uuid.UUID   `db:"user_id" json:"user_id"`
	Status           TrialStatus `db:"status" json:"status"`
	StartDate        *time.Time  `db:"start_date" json:"start_date,omitempty"`
	EndDate          *time.Time  `db:"end_date" json:"end_date,omitempty"`
	AllowedEntityIDs UUIDList    `db:"allowed_entity_ids" json:"allowed_entity_ids,omitempty"`
	LastRotationDate *time.Time  `db:"last_rotation_date" json:"last_rotation_date,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

type AccessLevel string

const (
	AccessFull           AccessLevel = "full"
	AccessLimitedCount   AccessLevel = "limited_count"
	AccessLimitedBlurred AccessLevel = "limited_blurred"
	AccessNone           AccessLevel = "none"
)

// FeatureAccessRule is the static per-feature configuration consulted by the
// access gate.
type FeatureAccessRule struct {
	FeatureKey                 string      `db:"feature_key" json:"feature_key"`
	TrialAccessLevel           AccessLevel `db:"trial_access_level" json:"trial_access_level"`
	TrialLimitValue            *int        `db:"trial_limit_value" json:"trial_limit_value,omitempty"`
	TrialLockedMessage         *string     `db:"trial_locked_message" json:"trial_locked_message,omitempty"`
	NonSubscriberAccessLevel   AccessLevel `db:"non_subscriber_access_level" json:"non_subscriber_access_level"`
	NonSubscriberLimitValue    *int        `db:"non_subscriber_limit_value" json:"non_subscriber_limit_value,omitempty"`
	NonSubscriberLockedMessage *string     `db:"non_subscriber_locked_message" json:"non_subscriber_locked_message,omitempty"`
}

// AccessDecision is the gate's answer for one user and one feature.
type AccessDecision struct {
	Access     AccessLevel `json:"access"`
	Limit      *int        `json:"limit,omitempty"`
	Message    *string     `json:"message,omitempty"`
	AllowedIDs []uuid.UUID `json:"allowed_ids,omitempty"`
}

// Allows reports whether the entity with the given id is visible in full
// under this decision.
func (d AccessDecision) Allows(id uuid.UUID) bool {
	if d.Access == AccessFull {
		return true
	}
	if d.Access != AccessLimitedCount {
		return false
	}
	for _, allowed := range d.AllowedIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
