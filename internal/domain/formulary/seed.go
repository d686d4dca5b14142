package formulary

// DefaultProfiles es la fuente de verdad del formulario preconfigurado.
// Los tres vasoactivos con sus opciones exactas de masa/diluyente y
// rango de dosis; no son derivables, se reproducen tal cual.
func DefaultProfiles() []DrugProfile {
	return []DrugProfile{
		{
			ID:               DrugDopamine,
			Name:             "Dopamine",
			MassOptionsMg:    []float64{200, 400, 800},
			DiluentOptionsMl: []float64{100, 250},
			DoseMin:          0,
			DoseMax:          20,
			DoseStep:         1,
		},
		{
			ID:               DrugDobutamine,
			Name:             "Dobutamine",
			MassOptionsMg:    []float64{250, 500, 1000},
			DiluentOptionsMl: []float64{100, 250},
			DoseMin:          0,
			DoseMax:          20,
			DoseStep:         1,
		},
		{
			ID:               DrugNorepinephrine,
			Name:             "Norepinephrine",
			MassOptionsMg:    []float64{2, 4, 8, 16, 32},
			DiluentOptionsMl: []float64{100, 250},
			DoseMin:          0,
			DoseMax:          2,
			DoseStep:         0.1,
		},
	}
}
