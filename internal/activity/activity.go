// Package activity defines logged sustainability activities and the impact
// estimator that prices them in carbon, plastic and water.
package activity

import (
	"strings"
	"time"
)

// Type enumerates the supported activity categories.
type Type string

const (
	TypeTravel   Type = "Travel"
	TypePurchase Type = "Purchase"
	TypeEnergy   Type = "Energy"
)

// Types lists every known activity type in display order.
var Types = []Type{TypeTravel, TypePurchase, TypeEnergy}

// ParseType accepts exactly the names in Types.
func ParseType(raw string) (Type, error) {
	for _, t := range Types {
		if raw == string(t) {
			return t, nil
		}
	}
	return "", ErrUnknownType
}

// DefaultSubtype is the subtype preselected for each type when none is given.
func DefaultSubtype(t Type) string {
	switch t {
	case TypeTravel:
		return "car"
	case TypePurchase:
		return "electronics"
	case TypeEnergy:
		return "electricity"
	default:
		return ""
	}
}

// Impact is the environmental cost attributed to one activity.
type Impact struct {
	Carbon  float64 `json:"carbon_footprint"`
	Plastic float64 `json:"plastic_waste"`
	Water   float64 `json:"water_usage"`
}

// Activity is an immutable logged action. Impact is computed once when the
// activity is created and never recomputed.
type Activity struct {
	ID        int64
	UserID    string
	Type      Type
	Subtype   string
	Details   Details
	Timestamp time.Time
	Impact    Impact
}

// NewDraft validates the raw form values and returns an activity without an
// ID; the store assigns the ID on append.
func NewDraft(userID string, t Type, subtype string, fields map[string]string, at time.Time) (Activity, error) {
	if strings.TrimSpace(userID) == "" {
		return Activity{}, ErrMissingUser
	}
	if strings.TrimSpace(subtype) == "" {
		subtype = DefaultSubtype(t)
	}
	details, err := ParseDetails(t, fields)
	if err != nil {
		return Activity{}, err
	}
	return Activity{
		UserID:    userID,
		Type:      t,
		Subtype:   subtype,
		Details:   details,
		Timestamp: at,
		Impact:    EstimateImpact(subtype, details),
	}, nil
}
