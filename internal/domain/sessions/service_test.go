package sessions

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"iv-drip-calculator/internal/domain/formulary"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Session
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Session{}}
}

func (r *testRepo) Create(ctx context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[s.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Session, error) {
	s, ok := r.byID[id]
	if !ok {
		return Session{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) Update(ctx context.Context, s Session) error {
	if _, ok := r.byID[s.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[s.ID] = s
	return nil
}

type testFormularyRepo struct {
	profiles []formulary.DrugProfile
}

func (r *testFormularyRepo) List(ctx context.Context) ([]formulary.DrugProfile, error) {
	return r.profiles, nil
}

func (r *testFormularyRepo) GetByID(ctx context.Context, id formulary.DrugID) (formulary.DrugProfile, error) {
	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return formulary.DrugProfile{}, formulary.ErrNotFound
}

func newService(repo Repository) *Service {
	return NewService(repo, formulary.NewService(&testFormularyRepo{profiles: formulary.DefaultProfiles()}))
}

func ptr(f float64) *float64 { return &f }

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultSelections(t *testing.T) {
	repo := newTestRepo()
	svc := newService(repo)

	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Create(context.Background(), "nurse-1", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected generated session id")
	}
	if sess.OwnerUserID != "nurse-1" {
		t.Fatalf("owner = %q, want nurse-1", sess.OwnerUserID)
	}
	if sess.WeightKg != nil {
		t.Fatalf("expected absent weight on create")
	}
	if sess.CreatedAt != now || sess.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}

	if len(sess.Selections) != 3 {
		t.Fatalf("expected one selection per drug, got %d", len(sess.Selections))
	}
	// Orden del formulario + defaults: primera masa, primer diluyente, dosis mínima.
	first := sess.Selections[0]
	if first.DrugID != formulary.DrugDopamine {
		t.Fatalf("first selection = %s, want dopamine", first.DrugID)
	}
	if first.MassMg != 200 || first.DiluentMl != 100 || first.DoseMcgKgMin != 0 {
		t.Fatalf("dopamine defaults = %v/%v/%v, want 200/100/0",
			first.MassMg, first.DiluentMl, first.DoseMcgKgMin)
	}
}

func TestService_Create_RequiresOwner(t *testing.T) {
	svc := newService(newTestRepo())

	_, err := svc.Create(context.Background(), "  ", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_NormalizesInvalidWeight(t *testing.T) {
	svc := newService(newTestRepo())

	for _, w := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		sess, err := svc.Create(context.Background(), "nurse-1", ptr(w))
		if err != nil {
			t.Fatalf("Create with weight %v returned error: %v", w, err)
		}
		if sess.WeightKg != nil {
			t.Fatalf("weight %v should normalize to absent, got %v", w, *sess.WeightKg)
		}
	}

	sess, err := svc.Create(context.Background(), "nurse-1", ptr(70))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sess.WeightKg == nil || *sess.WeightKg != 70 {
		t.Fatalf("expected weight 70 to be kept")
	}
}

func TestService_SetWeight(t *testing.T) {
	repo := newTestRepo()
	svc := newService(repo)

	now1 := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(3 * time.Minute)

	svc.now = func() time.Time { return now1 }
	sess, err := svc.Create(context.Background(), "nurse-1", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	updated, err := svc.SetWeight(context.Background(), sess.ID, ptr(70))
	if err != nil {
		t.Fatalf("SetWeight error: %v", err)
	}
	if updated.WeightKg == nil || *updated.WeightKg != 70 {
		t.Fatalf("expected weight 70")
	}
	if updated.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to change")
	}

	// null limpia; negativo se normaliza a ausente
	cleared, err := svc.SetWeight(context.Background(), sess.ID, nil)
	if err != nil {
		t.Fatalf("SetWeight(nil) error: %v", err)
	}
	if cleared.WeightKg != nil {
		t.Fatalf("expected weight cleared")
	}

	negative, err := svc.SetWeight(context.Background(), sess.ID, ptr(-80))
	if err != nil {
		t.Fatalf("SetWeight(-80) error: %v", err)
	}
	if negative.WeightKg != nil {
		t.Fatalf("expected negative weight normalized to absent")
	}
}

func TestService_UpdateSelection_ValidatesOptions(t *testing.T) {
	repo := newTestRepo()
	svc := newService(repo)

	sess, err := svc.Create(context.Background(), "nurse-1", ptr(70))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Masa válida
	updated, err := svc.UpdateSelection(context.Background(), sess.ID, formulary.DrugDopamine, UpdateSelectionInput{
		MassMg:    ptr(400),
		DiluentMl: ptr(250),
	})
	if err != nil {
		t.Fatalf("UpdateSelection error: %v", err)
	}
	sel := updated.Selections[updated.selectionIndex(formulary.DrugDopamine)]
	if sel.MassMg != 400 || sel.DiluentMl != 250 {
		t.Fatalf("selection = %v/%v, want 400/250", sel.MassMg, sel.DiluentMl)
	}

	// Masa fuera del set enumerado => ErrInvalidInput
	_, err = svc.UpdateSelection(context.Background(), sess.ID, formulary.DrugDopamine, UpdateSelectionInput{
		MassMg: ptr(300),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mass 300, got %v", err)
	}

	// Diluyente fuera del set => ErrInvalidInput
	_, err = svc.UpdateSelection(context.Background(), sess.ID, formulary.DrugDopamine, UpdateSelectionInput{
		DiluentMl: ptr(500),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for diluent 500, got %v", err)
	}

	// Fármaco desconocido => ErrUnknownDrug
	_, err = svc.UpdateSelection(context.Background(), sess.ID, "adrenaline", UpdateSelectionInput{
		MassMg: ptr(400),
	})
	if !errors.Is(err, ErrUnknownDrug) {
		t.Fatalf("expected ErrUnknownDrug, got %v", err)
	}
}

func TestService_UpdateSelection_SnapsDose(t *testing.T) {
	repo := newTestRepo()
	svc := newService(repo)

	sess, err := svc.Create(context.Background(), "nurse-1", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Norepinefrina: paso 0.1, rango 0-2
	updated, err := svc.UpdateSelection(context.Background(), sess.ID, formulary.DrugNorepinephrine, UpdateSelectionInput{
		DoseMcgKgMin: ptr(0.24),
	})
	if err != nil {
		t.Fatalf("UpdateSelection error: %v", err)
	}
	sel := updated.Selections[updated.selectionIndex(formulary.DrugNorepinephrine)]
	if math.Abs(sel.DoseMcgKgMin-0.2) > 1e-9 {
		t.Fatalf("dose = %v, want snapped 0.2", sel.DoseMcgKgMin)
	}

	// Fuera de rango se recorta, no se rechaza
	updated, err = svc.UpdateSelection(context.Background(), sess.ID, formulary.DrugNorepinephrine, UpdateSelectionInput{
		DoseMcgKgMin: ptr(9.5),
	})
	if err != nil {
		t.Fatalf("UpdateSelection error: %v", err)
	}
	sel = updated.Selections[updated.selectionIndex(formulary.DrugNorepinephrine)]
	if sel.DoseMcgKgMin != 2 {
		t.Fatalf("dose = %v, want clamped 2", sel.DoseMcgKgMin)
	}
}

func TestService_GetByID_Empty(t *testing.T) {
	svc := newService(newTestRepo())

	_, err := svc.GetByID(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
