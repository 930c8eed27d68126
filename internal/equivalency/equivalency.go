// Package equivalency expresses a carbon footprint as everyday comparisons.
package equivalency

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EPA greenhouse gas equivalency factors, in kg CO2e per unit.
const (
	MilesDrivenFactor      = 0.192
	SmartphoneChargeFactor = 0.00822
	TreeSeedlingFactor     = 60.0
)

// MinThresholdKg is the smallest footprint worth comparing.
const MinThresholdKg = 1.0

type constError string

func (e constError) Error() string { return string(e) }

var (
	ErrNegativeValue       = constError("negative carbon value")
	ErrCalculationOverflow = constError("calculation overflow")
)

// Kind identifies a comparison.
type Kind string

const (
	KindMilesDriven        Kind = "miles_driven"
	KindSmartphonesCharged Kind = "smartphones_charged"
	KindTreeSeedlingsGrown Kind = "tree_seedlings"
)

// Result is one comparison.
type Result struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Label     string  `json:"label"`
}

// Output is the full set of comparisons for one footprint. Empty is set
// when the footprint is below MinThresholdKg.
type Output struct {
	InputKg     float64  `json:"input_kg"`
	Results     []Result `json:"results"`
	DisplayText string   `json:"display_text"`
	Empty       bool     `json:"empty"`
}

var printer = message.NewPrinter(language.English)

// Calculate compares kg of CO2e against driving, phone charging and tree
// seedlings grown for ten years.
func Calculate(kg float64) (Output, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Output{Empty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return Output{Empty: true}, ErrNegativeValue
	}
	if kg < MinThresholdKg {
		return Output{InputKg: kg, Results: []Result{}, Empty: true}, nil
	}

	miles := kg / MilesDrivenFactor
	phones := kg / SmartphoneChargeFactor
	trees := kg / TreeSeedlingFactor

	results := []Result{
		{Kind: KindMilesDriven, Value: miles, Formatted: Format(miles), Label: "miles driven"},
		{Kind: KindSmartphonesCharged, Value: phones, Formatted: Format(phones), Label: "smartphones charged"},
		{Kind: KindTreeSeedlingsGrown, Value: trees, Formatted: Format(trees), Label: "tree seedlings grown for 10 years"},
	}

	display := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		results[0].Formatted, results[1].Formatted)

	return Output{
		InputKg:     kg,
		Results:     results,
		DisplayText: display,
	}, nil
}

// Format renders a comparison value: one decimal under 10, whole numbers
// with thousands separators above.
func Format(v float64) string {
	if v < 10 {
		return printer.Sprintf("%.1f", v)
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}
