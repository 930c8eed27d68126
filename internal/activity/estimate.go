package activity

// Emission and resource factors per unit of input.
const (
	travelCarbonPerKm = 0.21

	purchaseCarbonPerItem  = 5.5
	purchasePlasticPerItem = 25.0
	purchaseWaterPerItem   = 10.0

	electricityCarbonPerKWh = 0.82
	electricityWaterPerKWh  = 0.1
	fuelCarbonPerUnit       = 0.5
	fuelWaterPerUnit        = 1.0

	electricitySubtype = "electricity"
)

// EstimateImpact prices validated details. It is pure: the same subtype and
// details always yield the same impact, and every component is >= 0.
func EstimateImpact(subtype string, details Details) Impact {
	switch d := details.(type) {
	case TravelDetails:
		return Impact{Carbon: d.DistanceKm * travelCarbonPerKm}
	case PurchaseDetails:
		return Impact{
			Carbon:  d.Count * purchaseCarbonPerItem,
			Plastic: d.Count * purchasePlasticPerItem,
			Water:   d.Count * purchaseWaterPerItem,
		}
	case EnergyDetails:
		if subtype == electricitySubtype {
			return Impact{Carbon: d.Amount * electricityCarbonPerKWh, Water: d.Amount * electricityWaterPerKWh}
		}
		return Impact{Carbon: d.Amount * fuelCarbonPerUnit, Water: d.Amount * fuelWaterPerUnit}
	default:
		return Impact{}
	}
}

// Estimate parses raw form values and prices them in one step.
func Estimate(t Type, subtype string, fields map[string]string) (Impact, error) {
	details, err := ParseDetails(t, fields)
	if err != nil {
		return Impact{}, err
	}
	if subtype == "" {
		subtype = DefaultSubtype(t)
	}
	return EstimateImpact(subtype, details), nil
}
