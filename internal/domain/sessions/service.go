package sessions

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"iv-drip-calculator/internal/domain/formulary"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("session not found")
	ErrUnknownDrug  = errors.New("unknown drug")
)

type Service struct {
	repo      Repository
	formulary *formulary.Service
	now       func() time.Time
}

func NewService(repo Repository, f *formulary.Service) *Service {
	return &Service{
		repo:      repo,
		formulary: f,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, ownerUserID string, weightKg *float64) (Session, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Session{}, ErrInvalidInput
	}

	profiles, err := s.formulary.List(ctx)
	if err != nil {
		return Session{}, err
	}

	selections := make([]Selection, 0, len(profiles))
	for _, p := range profiles {
		mass, diluent, dose := p.DefaultSelection()
		selections = append(selections, Selection{
			DrugID:       p.ID,
			MassMg:       mass,
			DiluentMl:    diluent,
			DoseMcgKgMin: dose,
		})
	}

	now := s.now()
	sess := Session{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		WeightKg:    normalizeWeight(weightKg),
		Selections:  selections,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// SetWeight fija el peso compartido de la sesión.
// Peso inválido (<=0, NaN, Inf) se normaliza a ausente: no es un error,
// la UI lo muestra como "sin peso" y las velocidades caen a 0.
func (s *Service) SetWeight(ctx context.Context, id string, weightKg *float64) (Session, error) {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	sess.WeightKg = normalizeWeight(weightKg)
	sess.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// UpdateSelectionInput es un PATCH real: nil = no tocar ese campo.
type UpdateSelectionInput struct {
	MassMg       *float64
	DiluentMl    *float64
	DoseMcgKgMin *float64
}

// UpdateSelection actualiza la selección de un fármaco.
// Masa y diluyente deben pertenecer al set enumerado del perfil;
// la dosis se ajusta a la grilla del slider (clamp + snap), no se rechaza.
func (s *Service) UpdateSelection(ctx context.Context, id string, drugID formulary.DrugID, in UpdateSelectionInput) (Session, error) {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	idx := sess.selectionIndex(drugID)
	if idx < 0 {
		return Session{}, ErrUnknownDrug
	}

	profile, err := s.formulary.GetByID(ctx, drugID)
	if err != nil {
		return Session{}, err
	}

	sel := sess.Selections[idx]

	if in.MassMg != nil {
		if !profile.HasMassOption(*in.MassMg) {
			return Session{}, ErrInvalidInput
		}
		sel.MassMg = *in.MassMg
	}
	if in.DiluentMl != nil {
		if !profile.HasDiluentOption(*in.DiluentMl) {
			return Session{}, ErrInvalidInput
		}
		sel.DiluentMl = *in.DiluentMl
	}
	if in.DoseMcgKgMin != nil {
		sel.DoseMcgKgMin = profile.SnapDose(*in.DoseMcgKgMin)
	}

	sess.Selections[idx] = sel
	sess.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func normalizeWeight(w *float64) *float64 {
	if w == nil {
		return nil
	}
	v := *w
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	return &v
}
