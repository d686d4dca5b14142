package dosing

import (
	"math"
	"strconv"
)

// Precisión fija por campo. Forma parte del contrato observable:
// define la igualdad por redondeo que ve el host UI.
const (
	ConcentrationDecimals = 0
	RateMlPerMinDecimals  = 3
	RateMlPerHrDecimals   = 1
)

// FormatFixed formatea con decimales fijos. Cualquier valor no-finito
// (NaN, ±Inf) se muestra como 0 en la precisión del campo; el guard es
// explícito para que el fallback sea testeable, no coerción silenciosa.
func FormatFixed(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func FormatConcentration(v float64) string {
	return FormatFixed(v, ConcentrationDecimals)
}

func FormatRateMlPerMin(v float64) string {
	return FormatFixed(v, RateMlPerMinDecimals)
}

func FormatRateMlPerHr(v float64) string {
	return FormatFixed(v, RateMlPerHrDecimals)
}

// Display son los tres valores derivados ya formateados.
type Display struct {
	Concentration string
	RateMlPerMin  string
	RateMlPerHr   string
}

// FormatDerived aplica la precisión de cada campo a un Derived.
func FormatDerived(d Derived) Display {
	return Display{
		Concentration: FormatConcentration(d.ConcentrationMcgMl),
		RateMlPerMin:  FormatRateMlPerMin(d.RateMlPerMin),
		RateMlPerHr:   FormatRateMlPerHr(d.RateMlPerHr),
	}
}
