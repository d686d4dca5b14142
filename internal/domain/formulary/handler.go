package formulary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/drugs", func(dr chi.Router) {
		dr.Get("/", listDrugsHandler(svc))
		dr.Get("/{drugID}", getDrugHandler(svc))
	})
}

type drugProfileResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	MassOptionsMg    []float64 `json:"mass_options_mg"`
	DiluentOptionsMl []float64 `json:"diluent_options_ml"`
	DoseMin          float64   `json:"dose_min"`
	DoseMax          float64   `json:"dose_max"`
	DoseStep         float64   `json:"dose_step"`
}

func listDrugsHandler(svc *Service) http.HandlerFunc {
	// El formulario es público: no expone datos de paciente.
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]drugProfileResponse, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, toDrugProfileResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getDrugHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := DrugID(chi.URLParam(r, "drugID"))

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "drug not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toDrugProfileResponse(p))
	}
}

func toDrugProfileResponse(p DrugProfile) drugProfileResponse {
	return drugProfileResponse{
		ID:               string(p.ID),
		Name:             p.Name,
		MassOptionsMg:    p.MassOptionsMg,
		DiluentOptionsMl: p.DiluentOptionsMl,
		DoseMin:          p.DoseMin,
		DoseMax:          p.DoseMax,
		DoseStep:         p.DoseStep,
	}
}

// writeJSON se duplica a propósito en los handlers de cada módulo;
// si aparece en más módulos todavía, recién lo extraemos a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
