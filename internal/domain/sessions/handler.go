package sessions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"iv-drip-calculator/internal/domain/dosing"
	"iv-drip-calculator/internal/domain/formulary"
	"iv-drip-calculator/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", createSessionHandler(svc))
		sr.Get("/{sessionID}", getSessionHandler(svc))
		sr.Patch("/{sessionID}/weight", setWeightHandler(svc))
		sr.Patch("/{sessionID}/drugs/{drugID}", updateSelectionHandler(svc))
	})
}

type createSessionRequest struct {
	WeightKg *float64 `json:"weight_kg"`
}

type setWeightRequest struct {
	// null (o ausente) = limpiar el peso
	WeightKg *float64 `json:"weight_kg"`
}

type updateSelectionRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	MassMg       *float64 `json:"mass_mg"`
	DiluentMl    *float64 `json:"diluent_ml"`
	DoseMcgKgMin *float64 `json:"dose_mcg_kg_min"`
}

type sessionResponse struct {
	ID          string             `json:"id"`
	OwnerUserID string             `json:"owner_user_id"`
	WeightKg    *float64           `json:"weight_kg,omitempty"`
	Drugs       []drugViewResponse `json:"drugs"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type drugViewResponse struct {
	DrugID       string          `json:"drug_id"`
	MassMg       float64         `json:"mass_mg"`
	DiluentMl    float64         `json:"diluent_ml"`
	DoseMcgKgMin float64         `json:"dose_mcg_kg_min"`
	Derived      derivedResponse `json:"derived"`
}

type derivedResponse struct {
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

func createSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: POST sin body crea sesión sin peso.
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.Create(r.Context(), claims.UserID, req.WeightKg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

func getSessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := authorizeSession(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

func setWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := authorizeSession(w, r, svc)
		if !ok {
			return
		}

		var req setWeightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.SetWeight(r.Context(), sess.ID, req.WeightKg)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(updated))
	}
}

func updateSelectionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := authorizeSession(w, r, svc)
		if !ok {
			return
		}

		drugID := formulary.DrugID(chi.URLParam(r, "drugID"))

		var req updateSelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateSelection(r.Context(), sess.ID, drugID, UpdateSelectionInput{
			MassMg:       req.MassMg,
			DiluentMl:    req.DiluentMl,
			DoseMcgKgMin: req.DoseMcgKgMin,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(updated))
	}
}

// authorizeSession resuelve claims + sesión y aplica owner-only:
// las sesiones no se comparten (sin delegados en esta calculadora).
func authorizeSession(w http.ResponseWriter, r *http.Request, svc *Service) (Session, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Session{}, false
	}

	sess, err := svc.GetByID(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, err)
		return Session{}, false
	}

	if sess.OwnerUserID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return Session{}, false
	}

	return sess, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnknownDrug), errors.Is(err, formulary.ErrNotFound):
		http.Error(w, "drug not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toSessionResponse(s Session) sessionResponse {
	weight := dosing.AbsentWeight()
	if s.WeightKg != nil {
		weight = *s.WeightKg
	}

	drugs := make([]drugViewResponse, 0, len(s.Selections))
	for _, sel := range s.Selections {
		derived := dosing.Compute(dosing.Input{
			MassMg:       sel.MassMg,
			DiluentMl:    sel.DiluentMl,
			DoseMcgKgMin: sel.DoseMcgKgMin,
			WeightKg:     weight,
		})
		drugs = append(drugs, drugViewResponse{
			DrugID:       string(sel.DrugID),
			MassMg:       sel.MassMg,
			DiluentMl:    sel.DiluentMl,
			DoseMcgKgMin: sel.DoseMcgKgMin,
			Derived:      toDerivedResponse(derived),
		})
	}

	return sessionResponse{
		ID:          s.ID,
		OwnerUserID: s.OwnerUserID,
		WeightKg:    s.WeightKg,
		Drugs:       drugs,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDerivedResponse(d dosing.Derived) derivedResponse {
	disp := dosing.FormatDerived(d)
	return derivedResponse{
		ConcentrationMcgMl: d.ConcentrationMcgMl,
		RateMlPerMin:       d.RateMlPerMin,
		RateMlPerHr:        d.RateMlPerHr,
		Display: displayResponse{
			Concentration: disp.Concentration,
			RateMlPerMin:  disp.RateMlPerMin,
			RateMlPerHr:   disp.RateMlPerHr,
		},
	}
}

// writeJSON se duplica a propósito en los handlers de cada módulo;
// ver nota en formulary/handler.go.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
