package formulary

import (
	"fmt"
	"math"
)

// DrugID identifica un fármaco del formulario.
type DrugID string

const (
	DrugDopamine       DrugID = "dopamine"
	DrugDobutamine     DrugID = "dobutamine"
	DrugNorepinephrine DrugID = "norepinephrine"
)

// DrugProfile es la configuración estática por fármaco:
// opciones de masa y diluyente permitidas, rango y paso de dosis.
// Inmutable en runtime; definida al arranque.
type DrugProfile struct {
	ID   DrugID
	Name string

	MassOptionsMg    []float64 // mg
	DiluentOptionsMl []float64 // mL

	// Dosis en mcg/kg/min
	DoseMin  float64
	DoseMax  float64
	DoseStep float64
}

// Validate aplica las restricciones de configuración:
// opciones positivas, min <= max, step > 0.
func (p DrugProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("drug profile: id required")
	}
	if len(p.MassOptionsMg) == 0 {
		return fmt.Errorf("drug profile %s: mass options required", p.ID)
	}
	for _, m := range p.MassOptionsMg {
		if !isFinite(m) || m <= 0 {
			return fmt.Errorf("drug profile %s: mass option %v must be positive", p.ID, m)
		}
	}
	if len(p.DiluentOptionsMl) == 0 {
		return fmt.Errorf("drug profile %s: diluent options required", p.ID)
	}
	for _, d := range p.DiluentOptionsMl {
		if !isFinite(d) || d <= 0 {
			return fmt.Errorf("drug profile %s: diluent option %v must be positive", p.ID, d)
		}
	}
	if !isFinite(p.DoseMin) || !isFinite(p.DoseMax) || p.DoseMin > p.DoseMax {
		return fmt.Errorf("drug profile %s: dose range [%v,%v] invalid", p.ID, p.DoseMin, p.DoseMax)
	}
	if !isFinite(p.DoseStep) || p.DoseStep <= 0 {
		return fmt.Errorf("drug profile %s: dose step %v must be positive", p.ID, p.DoseStep)
	}
	return nil
}

// HasMassOption indica si la masa pertenece al set enumerado del perfil.
func (p DrugProfile) HasMassOption(massMg float64) bool {
	return hasOption(p.MassOptionsMg, massMg)
}

// HasDiluentOption indica si el diluyente pertenece al set enumerado del perfil.
func (p DrugProfile) HasDiluentOption(diluentMl float64) bool {
	return hasOption(p.DiluentOptionsMl, diluentMl)
}

// SnapDose replica la semántica del slider del host UI:
// clamp al rango [min,max] y cuantización al paso más cercano.
// Nunca rechaza: fuera de rango se recorta, fuera de grilla se ajusta.
func (p DrugProfile) SnapDose(dose float64) float64 {
	if math.IsNaN(dose) || dose <= p.DoseMin {
		return p.DoseMin
	}
	if dose >= p.DoseMax {
		return p.DoseMax
	}

	steps := math.Round((dose - p.DoseMin) / p.DoseStep)
	v := p.DoseMin + steps*p.DoseStep

	// recorta el ruido binario de pasos tipo 0.1
	v = math.Round(v*1e9) / 1e9

	if v > p.DoseMax {
		return p.DoseMax
	}
	return v
}

// DefaultSelection devuelve la selección inicial del perfil:
// primera masa, primer diluyente, dosis mínima.
func (p DrugProfile) DefaultSelection() (massMg, diluentMl, dose float64) {
	return p.MassOptionsMg[0], p.DiluentOptionsMl[0], p.DoseMin
}

const optionTolerance = 1e-9

func hasOption(options []float64, v float64) bool {
	for _, opt := range options {
		if math.Abs(opt-v) <= optionTolerance {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
