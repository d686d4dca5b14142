package dosing

import "math"

// Concentration calcula mcg/mL a partir de la masa del fármaco (mg)
// y el volumen de diluyente (mL). Las opciones de masa y diluyente vienen
// del formulario y son siempre positivas, así que el resultado es > 0.
func Concentration(massMg, diluentMl float64) float64 {
	return (massMg * 1000) / diluentMl
}

// RateMlPerMin calcula la velocidad de infusión en mL/min.
// Si el peso es ausente/no-finito/cero/negativo devuelve 0:
// es política explícita de fallback, no un error.
func RateMlPerMin(doseMcgKgMin, weightKg, concentrationMcgMl float64) float64 {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return 0
	}
	return (doseMcgKgMin * weightKg) / concentrationMcgMl
}

// RateMlPerHr convierte mL/min a mL/hr.
func RateMlPerHr(mlPerMin float64) float64 {
	return mlPerMin * 60
}

// Input es el snapshot de entradas de un cálculo.
// WeightKg = NaN representa "peso no registrado".
type Input struct {
	MassMg       float64
	DiluentMl    float64
	DoseMcgKgMin float64
	WeightKg     float64
}

// Derived son los valores calculados; nunca se almacenan,
// se recalculan en cada lectura.
type Derived struct {
	ConcentrationMcgMl float64
	RateMlPerMin       float64
	RateMlPerHr        float64
}

// AbsentWeight devuelve el marcador de peso ausente.
func AbsentWeight() float64 {
	return math.NaN()
}

// Compute evalúa las tres fórmulas sobre un snapshot de entradas.
// Puro y sin estado: re-ejecutable en cada cambio de input.
func Compute(in Input) Derived {
	conc := Concentration(in.MassMg, in.DiluentMl)
	perMin := RateMlPerMin(in.DoseMcgKgMin, in.WeightKg, conc)

	return Derived{
		ConcentrationMcgMl: conc,
		RateMlPerMin:       perMin,
		RateMlPerHr:        RateMlPerHr(perMin),
	}
}
