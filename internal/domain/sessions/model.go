package sessions

import (
	"time"

	"iv-drip-calculator/internal/domain/formulary"
)

// Selection es el estado elegido por el usuario para un fármaco:
// masa, diluyente y dosis. Vive lo que dura la sesión; nunca se persiste.
type Selection struct {
	DrugID       formulary.DrugID
	MassMg       float64
	DiluentMl    float64
	DoseMcgKgMin float64
}

// Session modela una sesión de calculadora de cabecera:
// un peso de paciente compartido y una Selection por fármaco del formulario.
// Los valores derivados no se guardan; se recalculan en cada lectura.
type Session struct {
	ID          string
	OwnerUserID string

	// WeightKg nil = peso no registrado (o inválido y normalizado a ausente).
	WeightKg *float64

	// En el orden del formulario, para que el host UI pinte estable.
	Selections []Selection

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Session) selectionIndex(drugID formulary.DrugID) int {
	for i, sel := range s.Selections {
		if sel.DrugID == drugID {
			return i
		}
	}
	return -1
}
