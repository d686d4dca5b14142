package memory

import (
	"context"
	"sync"

	"iv-drip-calculator/internal/domain/formulary"
)

// FormularyRepo sirve perfiles desde memoria, en el orden de carga.
// Replace permite el hot-reload de configuración sin reiniciar.
type FormularyRepo struct {
	mu       sync.RWMutex
	profiles []formulary.DrugProfile
}

func NewFormularyRepo(profiles []formulary.DrugProfile) *FormularyRepo {
	r := &FormularyRepo{}
	r.Replace(profiles)
	return r
}

func (r *FormularyRepo) List(ctx context.Context) ([]formulary.DrugProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]formulary.DrugProfile, len(r.profiles))
	copy(out, r.profiles)
	return out, nil
}

func (r *FormularyRepo) GetByID(ctx context.Context, id formulary.DrugID) (formulary.DrugProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return formulary.DrugProfile{}, formulary.ErrNotFound
}

// Replace cambia el formulario completo de una vez (snapshot atómico).
func (r *FormularyRepo) Replace(profiles []formulary.DrugProfile) {
	next := make([]formulary.DrugProfile, len(profiles))
	copy(next, profiles)

	r.mu.Lock()
	r.profiles = next
	r.mu.Unlock()
}
