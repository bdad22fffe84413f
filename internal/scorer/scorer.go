/**
 * Bill scorer
 *
 * The regression model that predicts a household's expected monthly bill is
 * treated as an opaque capability: loaded once at startup, immutable, and
 * safe for concurrent reads. LinearScorer is the file-backed implementation;
 * any regression backend satisfying Scorer can replace it.
 */

package scorer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/saveawatt/billsense/internal/billing"
	errs "github.com/saveawatt/billsense/internal/errors"
)

// Features are the inputs the regression model was trained on
type Features struct {
	BillingType   billing.BillType `json:"billing_type" validate:"required"`
	Month         string           `json:"month"`
	PostalCode    string           `json:"postal_code"`
	NumPeople     int              `json:"num_people" validate:"omitempty,min=1"`
	NumChildren   int              `json:"num_children" validate:"omitempty,min=0"`
	SqFt          float64          `json:"sq_ft" validate:"omitempty,min=0"`
	MonthlyIncome float64          `json:"monthly_income" validate:"omitempty,min=0"`
	UsageKWh      float64          `json:"usage_kWh" validate:"min=0"`
	LowerTierKWh  float64          `json:"lower_tier_kWh" validate:"omitempty,min=0"`
	UpperTierKWh  float64          `json:"upper_tier_kWh" validate:"omitempty,min=0"`
}

// Scorer predicts the expected monthly bill for a feature set
type Scorer interface {
	Predict(features Features) (float64, error)
}

// modelWeights is one tariff variant's linear model
type modelWeights struct {
	Intercept    float64            `json:"intercept"`
	PerKWh       float64            `json:"per_kwh"`
	PerUpperKWh  float64            `json:"per_upper_kwh"`
	PerPerson    float64            `json:"per_person"`
	PerChild     float64            `json:"per_child"`
	PerSqFt      float64            `json:"per_sqft"`
	MonthFactors map[string]float64 `json:"month_factors"`
}

// LinearScorer is a weights-file-backed Scorer. The weights map is never
// mutated after load, which makes Predict safe to call from any number of
// request workers.
type LinearScorer struct {
	weights map[billing.BillType]modelWeights
}

// LoadLinear reads per-variant weights from a JSON file
func LoadLinear(path string) (*LinearScorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scorer weights: %w", err)
	}

	var weights map[billing.BillType]modelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to parse scorer weights: %w", err)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("scorer weights file %s contains no models", path)
	}

	return &LinearScorer{weights: weights}, nil
}

// NewDefaultLinear builds a scorer with built-in weights, used when no
// weights file is configured. The coefficients approximate Ontario
// residential rates.
func NewDefaultLinear() *LinearScorer {
	return &LinearScorer{weights: map[billing.BillType]modelWeights{
		billing.BillTypeTOU: {
			Intercept: 32.0, PerKWh: 0.103, PerPerson: 4.1, PerChild: 2.2, PerSqFt: 0.006,
		},
		billing.BillTypeTiered: {
			Intercept: 30.5, PerKWh: 0.093, PerUpperKWh: 0.036, PerPerson: 4.3, PerChild: 2.4, PerSqFt: 0.006,
		},
		billing.BillTypeFlatULO: {
			Intercept: 29.0, PerKWh: 0.097, PerPerson: 3.9, PerChild: 2.1, PerSqFt: 0.005,
		},
	}}
}

// Predict returns the expected monthly bill in dollars
func (s *LinearScorer) Predict(features Features) (float64, error) {
	w, ok := s.weights[features.BillingType]
	if !ok {
		return 0, fmt.Errorf("no model loaded for billing type %q", features.BillingType)
	}

	bill := w.Intercept +
		w.PerKWh*features.UsageKWh +
		w.PerUpperKWh*features.UpperTierKWh +
		w.PerPerson*float64(features.NumPeople) +
		w.PerChild*float64(features.NumChildren) +
		w.PerSqFt*features.SqFt

	if factor, ok := w.MonthFactors[strings.ToLower(features.Month)]; ok {
		bill *= factor
	}

	return bill, nil
}

// EfficiencyScore relates the predicted bill to the household's reported
// peak-period total. A zero or negative peak total is a caller error, never
// a silent zero score.
func EfficiencyScore(s Scorer, features Features, peakTotal float64) (float64, error) {
	if peakTotal <= 0 {
		return 0, errs.NewInvalidInputError("peak_total must be greater than zero")
	}

	prediction, err := s.Predict(features)
	if err != nil {
		return 0, errs.NewInvalidInputError(err.Error())
	}

	return prediction / peakTotal * 100, nil
}
