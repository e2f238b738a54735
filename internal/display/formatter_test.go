package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"CrazyCarl/internal/model"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.00005, "5.0000e-5"},
		{0.0000123456, "1.2346e-5"},
		{0.0003, "0.000300"},
		{0.005, "0.005000"},
		{0.5, "0.5000"},
		{0.02, "0.0200"},
		{1, "1.00"},
		{5, "5.00"},
		{1234.567, "1234.57"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExponential_Zero(t *testing.T) {
	assert.Equal(t, "0.0000e+0", exponential(0, 4))
}

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{1.0, "$1.00B"},
		{0.5, "$500.00M"},
		{0.02, "$20.00M"},
		{0.0003, "$300.00K"},
		{0.0000005, "$500.00"},
	}
	for _, tt := range tests {
		if got := FormatMarketCap(tt.price, 1_000_000_000); got != tt.want {
			t.Errorf("FormatMarketCap(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestMarketCap_Exact(t *testing.T) {
	assert.True(t, MarketCap(1.0, 1e9).Equal(decimal.NewFromInt(1_000_000_000)))
	assert.True(t, MarketCap(0.0012, 1e9).Equal(decimal.NewFromInt(1_200_000)))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, "50.00", PercentChange([]model.SeriesPoint{{Value: 1}, {Value: 1.5}}))
	assert.Equal(t, "-50.00", PercentChange([]model.SeriesPoint{{Value: 2}, {Value: 3}, {Value: 1}}))
	assert.Equal(t, "0", PercentChange([]model.SeriesPoint{{Value: 1}}))
	assert.Equal(t, "0", PercentChange(nil))
}
