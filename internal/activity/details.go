package activity

import (
	"math"
	"strconv"
	"strings"
)

// Form field keys, shared by the HTTP API, the CLI and stored detail maps.
const (
	FieldDistance    = "distance"
	FieldDuration    = "duration"
	FieldItemName    = "item_name"
	FieldQuantity    = "quantity"
	FieldConsumption = "consumption"
)

// Details is the type-specific payload of an activity. Each variant carries
// exactly the fields its type requires.
type Details interface {
	Type() Type
	// Fields returns the raw form values as entered, for display and search.
	Fields() map[string]string
}

// TravelDetails describes a trip. Duration is kept for display only.
type TravelDetails struct {
	Distance    string
	Duration    string
	DistanceKm  float64
	DurationHrs float64
}

func (TravelDetails) Type() Type { return TypeTravel }

func (d TravelDetails) Fields() map[string]string {
	return map[string]string{FieldDistance: d.Distance, FieldDuration: d.Duration}
}

// PurchaseDetails describes bought items.
type PurchaseDetails struct {
	ItemName string
	Quantity string
	Count    float64
}

func (PurchaseDetails) Type() Type { return TypePurchase }

func (d PurchaseDetails) Fields() map[string]string {
	return map[string]string{FieldItemName: d.ItemName, FieldQuantity: d.Quantity}
}

// EnergyDetails describes metered consumption in kWh or litres.
type EnergyDetails struct {
	Consumption string
	Amount      float64
}

func (EnergyDetails) Type() Type { return TypeEnergy }

func (d EnergyDetails) Fields() map[string]string {
	return map[string]string{FieldConsumption: d.Consumption}
}

// ParseDetails checks that every required field is present and numeric where
// needed. Presence is verified before any parsing is attempted. A field is
// present when it is non-empty; values are kept exactly as entered.
func ParseDetails(t Type, fields map[string]string) (Details, error) {
	get := func(key string) string {
		return fields[key]
	}

	switch t {
	case TypeTravel:
		distance, duration := get(FieldDistance), get(FieldDuration)
		if distance == "" || duration == "" {
			return nil, missing("Distance and Duration are required.")
		}
		km, err := parseAmount(FieldDistance, distance)
		if err != nil {
			return nil, err
		}
		hrs, err := parseAmount(FieldDuration, duration)
		if err != nil {
			return nil, err
		}
		return TravelDetails{Distance: distance, Duration: duration, DistanceKm: km, DurationHrs: hrs}, nil
	case TypePurchase:
		item, quantity := get(FieldItemName), get(FieldQuantity)
		if item == "" || quantity == "" {
			return nil, missing("Item Name and Quantity are required.")
		}
		count, err := parseAmount(FieldQuantity, quantity)
		if err != nil {
			return nil, err
		}
		return PurchaseDetails{ItemName: item, Quantity: quantity, Count: count}, nil
	case TypeEnergy:
		consumption := get(FieldConsumption)
		if consumption == "" {
			return nil, missing("Consumption is required.")
		}
		amount, err := parseAmount(FieldConsumption, consumption)
		if err != nil {
			return nil, err
		}
		return EnergyDetails{Consumption: consumption, Amount: amount}, nil
	default:
		return nil, ErrUnknownType
	}
}

// parseAmount accepts finite, non-negative decimals only. Surrounding
// whitespace is ignored.
func parseAmount(field, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, invalidNumber(field)
	}
	return value, nil
}
