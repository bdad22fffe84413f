package scorer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveawatt/billsense/internal/billing"
	errs "github.com/saveawatt/billsense/internal/errors"
	"github.com/saveawatt/billsense/internal/scorer"
)

func TestLoadLinearFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	weights := `{
		"TOU": {"intercept": 10, "per_kwh": 0.1, "month_factors": {"july": 1.2}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(weights), 0o644))

	s, err := scorer.LoadLinear(path)
	require.NoError(t, err)

	bill, err := s.Predict(scorer.Features{BillingType: billing.BillTypeTOU, UsageKWh: 100})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, bill, 0.001)

	// month factor applies case-insensitively
	bill, err = s.Predict(scorer.Features{BillingType: billing.BillTypeTOU, UsageKWh: 100, Month: "July"})
	require.NoError(t, err)
	assert.InDelta(t, 24.0, bill, 0.001)
}

func TestLoadLinearRejectsEmptyAndMissing(t *testing.T) {
	_, err := scorer.LoadLinear(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err = scorer.LoadLinear(path)
	assert.Error(t, err)
}

func TestPredictUnknownBillingType(t *testing.T) {
	s := scorer.NewDefaultLinear()

	_, err := s.Predict(scorer.Features{BillingType: "Quadratic"})
	assert.Error(t, err)
}

func TestPredictUsageMonotonic(t *testing.T) {
	s := scorer.NewDefaultLinear()

	for _, bt := range []billing.BillType{billing.BillTypeTOU, billing.BillTypeTiered, billing.BillTypeFlatULO} {
		low, err := s.Predict(scorer.Features{BillingType: bt, UsageKWh: 200})
		require.NoError(t, err)
		high, err := s.Predict(scorer.Features{BillingType: bt, UsageKWh: 900})
		require.NoError(t, err)
		assert.Greater(t, high, low, "usage should raise the predicted bill for %s", bt)
	}
}

func TestEfficiencyScore(t *testing.T) {
	s := scorer.NewDefaultLinear()
	features := scorer.Features{BillingType: billing.BillTypeTOU, UsageKWh: 700, NumPeople: 3}

	score, err := scorer.EfficiencyScore(s, features, 700)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)

	bill, err := s.Predict(features)
	require.NoError(t, err)
	assert.InDelta(t, bill/700*100, score, 0.001)
}

func TestEfficiencyScoreZeroPeakTotal(t *testing.T) {
	_, err := scorer.EfficiencyScore(scorer.NewDefaultLinear(), scorer.Features{BillingType: billing.BillTypeTOU}, 0)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorInvalidInput, errs.CodeOf(err))

	_, err = scorer.EfficiencyScore(scorer.NewDefaultLinear(), scorer.Features{BillingType: billing.BillTypeTOU}, -5)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorInvalidInput, errs.CodeOf(err))
}
