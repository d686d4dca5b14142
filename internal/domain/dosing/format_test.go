package dosing

import (
	"math"
	"testing"
)

func TestFormatFixed_Precision(t *testing.T) {
	cases := []struct {
		name     string
		v        float64
		decimals int
		want     string
	}{
		{"concentration no decimals", 1600, 0, "1600"},
		{"rate per min 3 decimals", 0.21875, 3, "0.219"},
		{"rate per hr 1 decimal", 13.125, 1, "13.1"},
		{"rate per min exact", 0.2, 3, "0.200"},
		{"rate per hr exact", 12, 1, "12.0"},
		{"zero rate per min", 0, 3, "0.000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatFixed(tc.v, tc.decimals); got != tc.want {
				t.Fatalf("FormatFixed(%v, %d) = %q, want %q", tc.v, tc.decimals, got, tc.want)
			}
		})
	}
}

func TestFormatFixed_NonFiniteRendersZero(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := FormatFixed(v, 3); got != "0.000" {
			t.Fatalf("FormatFixed(%v, 3) = %q, want \"0.000\"", v, got)
		}
		if got := FormatFixed(v, 1); got != "0.0" {
			t.Fatalf("FormatFixed(%v, 1) = %q, want \"0.0\"", v, got)
		}
		if got := FormatFixed(v, 0); got != "0" {
			t.Fatalf("FormatFixed(%v, 0) = %q, want \"0\"", v, got)
		}
	}
}

func TestFormatDerived_DopamineScenario(t *testing.T) {
	d := FormatDerived(Derived{
		ConcentrationMcgMl: 1600,
		RateMlPerMin:       0.21875,
		RateMlPerHr:        13.125,
	})

	if d.Concentration != "1600" {
		t.Fatalf("concentration = %q, want \"1600\"", d.Concentration)
	}
	if d.RateMlPerMin != "0.219" {
		t.Fatalf("rate ml/min = %q, want \"0.219\"", d.RateMlPerMin)
	}
	if d.RateMlPerHr != "13.1" {
		t.Fatalf("rate ml/hr = %q, want \"13.1\"", d.RateMlPerHr)
	}
}

func TestFormatDerived_AbsentWeightDisplaysZeroRates(t *testing.T) {
	d := FormatDerived(Compute(Input{
		MassMg:       250,
		DiluentMl:    100,
		DoseMcgKgMin: 10,
		WeightKg:     AbsentWeight(),
	}))

	if d.RateMlPerMin != "0.000" {
		t.Fatalf("rate ml/min = %q, want \"0.000\"", d.RateMlPerMin)
	}
	if d.RateMlPerHr != "0.0" {
		t.Fatalf("rate ml/hr = %q, want \"0.0\"", d.RateMlPerHr)
	}
}
