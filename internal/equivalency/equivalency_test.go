package equivalency

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	out, err := Calculate(150)
	require.NoError(t, err)
	require.False(t, out.Empty)
	require.Len(t, out.Results, 3)

	assert.InDelta(t, 781.25, out.Results[0].Value, 0.01)
	assert.InDelta(t, 18248.18, out.Results[1].Value, 0.01)
	assert.InDelta(t, 2.5, out.Results[2].Value, 0.0001)

	assert.Equal(t, "781", out.Results[0].Formatted)
	assert.Equal(t, "18,248", out.Results[1].Formatted)
	assert.Equal(t, "2.5", out.Results[2].Formatted)
	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", out.DisplayText)
}

func TestCalculateBelowThreshold(t *testing.T) {
	for _, kg := range []float64{0, 0.5, 0.999} {
		out, err := Calculate(kg)
		require.NoError(t, err)
		assert.True(t, out.Empty)
		assert.Empty(t, out.Results)
		assert.Empty(t, out.DisplayText)
	}

	out, err := Calculate(MinThresholdKg)
	require.NoError(t, err)
	assert.False(t, out.Empty)
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	_, err := Calculate(-1)
	require.True(t, errors.Is(err, ErrNegativeValue))

	_, err = Calculate(math.Inf(1))
	require.True(t, errors.Is(err, ErrCalculationOverflow))

	_, err = Calculate(math.NaN())
	require.True(t, errors.Is(err, ErrCalculationOverflow))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 5.208333, want: "5.2"},
		{in: 9.96, want: "10.0"},
		{in: 10, want: "10"},
		{in: 1234.6, want: "1,235"},
		{in: 1250000, want: "1,250,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in))
	}
}
