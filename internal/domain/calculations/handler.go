package calculations

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"iv-drip-calculator/internal/domain/dosing"
	"iv-drip-calculator/internal/domain/formulary"

	"github.com/go-chi/chi/v5"
)

// Cálculo one-shot sin sesión, para hosts que guardan su propio estado.
// Es la traducción directa del contrato UI: config + inputs => derivados.
func RegisterRoutes(r chi.Router, formularySvc *formulary.Service) {
	r.Post("/calculations", calculateHandler(formularySvc))
}

type calcRequest struct {
	// Opcional: si viene, masa/diluyente/dosis se validan contra el perfil.
	DrugID string `json:"drug_id"`

	MassMg       float64 `json:"mass_mg"`
	DiluentMl    float64 `json:"diluent_ml"`
	DoseMcgKgMin float64 `json:"dose_mcg_kg_min"`

	// null o ausente = sin peso => velocidades 0
	WeightKg *float64 `json:"weight_kg"`
}

type calcResponse struct {
	ConcentrationMcgMl float64         `json:"concentration_mcg_per_ml"`
	RateMlPerMin       float64         `json:"rate_ml_per_min"`
	RateMlPerHr        float64         `json:"rate_ml_per_hr"`
	Display            displayResponse `json:"display"`
}

type displayResponse struct {
	Concentration string `json:"concentration"`
	RateMlPerMin  string `json:"rate_ml_per_min"`
	RateMlPerHr   string `json:"rate_ml_per_hr"`
}

func calculateHandler(formularySvc *formulary.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		dose := req.DoseMcgKgMin

		if req.DrugID != "" {
			profile, err := formularySvc.GetByID(r.Context(), formulary.DrugID(req.DrugID))
			if err != nil {
				if errors.Is(err, formulary.ErrNotFound) || errors.Is(err, formulary.ErrInvalidInput) {
					http.Error(w, "drug not found", http.StatusNotFound)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if !profile.HasMassOption(req.MassMg) {
				http.Error(w, "mass_mg not in drug options", http.StatusBadRequest)
				return
			}
			if !profile.HasDiluentOption(req.DiluentMl) {
				http.Error(w, "diluent_ml not in drug options", http.StatusBadRequest)
				return
			}
			dose = profile.SnapDose(dose)
		} else {
			// Sin perfil no hay sets enumerados que garanticen conc > 0:
			// validamos lo mínimo para no derivar sobre basura.
			if !isPositiveFinite(req.MassMg) {
				http.Error(w, "mass_mg must be positive", http.StatusBadRequest)
				return
			}
			if !isPositiveFinite(req.DiluentMl) {
				http.Error(w, "diluent_ml must be positive", http.StatusBadRequest)
				return
			}
			if math.IsNaN(dose) || math.IsInf(dose, 0) || dose < 0 {
				http.Error(w, "dose_mcg_kg_min must be a non-negative number", http.StatusBadRequest)
				return
			}
		}

		weight := dosing.AbsentWeight()
		if req.WeightKg != nil {
			weight = *req.WeightKg
		}

		derived := dosing.Compute(dosing.Input{
			MassMg:       req.MassMg,
			DiluentMl:    req.DiluentMl,
			DoseMcgKgMin: dose,
			WeightKg:     weight,
		})
		disp := dosing.FormatDerived(derived)

		writeJSON(w, http.StatusOK, calcResponse{
			ConcentrationMcgMl: derived.ConcentrationMcgMl,
			RateMlPerMin:       derived.RateMlPerMin,
			RateMlPerHr:        derived.RateMlPerHr,
			Display: displayResponse{
				Concentration: disp.Concentration,
				RateMlPerMin:  disp.RateMlPerMin,
				RateMlPerHr:   disp.RateMlPerHr,
			},
		})
	}
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// writeJSON se duplica a propósito en los handlers de cada módulo;
// ver nota en formulary/handler.go.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
