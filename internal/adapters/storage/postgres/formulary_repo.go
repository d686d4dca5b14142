package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"iv-drip-calculator/internal/domain/formulary"
)

// FormularyRepo lee perfiles de fármacos desde Postgres, para despliegues
// que administran su formulario de forma central en vez de por archivo.
//
// Esquema esperado:
//
//	CREATE TABLE drug_profiles (
//	    id                 text PRIMARY KEY,
//	    name               text NOT NULL,
//	    mass_options_mg    jsonb NOT NULL,
//	    diluent_options_ml jsonb NOT NULL,
//	    dose_min           double precision NOT NULL,
//	    dose_max           double precision NOT NULL,
//	    dose_step          double precision NOT NULL,
//	    position           integer NOT NULL
//	);
//
// Las listas de opciones van como jsonb para mantener el scan por
// database/sql simple (decode con encoding/json).
type FormularyRepo struct {
	db *sql.DB
}

func NewFormularyRepo(db *sql.DB) *FormularyRepo {
	return &FormularyRepo{db: db}
}

func (r *FormularyRepo) List(ctx context.Context) ([]formulary.DrugProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name,
			mass_options_mg, diluent_options_ml,
			dose_min, dose_max, dose_step
		FROM drug_profiles
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]formulary.DrugProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *FormularyRepo) GetByID(ctx context.Context, id formulary.DrugID) (formulary.DrugProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name,
			mass_options_mg, diluent_options_ml,
			dose_min, dose_max, dose_step
		FROM drug_profiles
		WHERE id = $1
	`, string(id))

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return formulary.DrugProfile{}, formulary.ErrNotFound
		}
		return formulary.DrugProfile{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (formulary.DrugProfile, error) {
	var p formulary.DrugProfile
	var id string
	var massRaw, diluentRaw []byte

	if err := row.Scan(
		&id,
		&p.Name,
		&massRaw,
		&diluentRaw,
		&p.DoseMin,
		&p.DoseMax,
		&p.DoseStep,
	); err != nil {
		return formulary.DrugProfile{}, err
	}
	p.ID = formulary.DrugID(id)

	if err := json.Unmarshal(massRaw, &p.MassOptionsMg); err != nil {
		return formulary.DrugProfile{}, fmt.Errorf("drug %s: mass options: %w", id, err)
	}
	if err := json.Unmarshal(diluentRaw, &p.DiluentOptionsMl); err != nil {
		return formulary.DrugProfile{}, fmt.Errorf("drug %s: diluent options: %w", id, err)
	}

	// Un perfil inválido en DB es error de datos, no fallback silencioso.
	if err := p.Validate(); err != nil {
		return formulary.DrugProfile{}, err
	}

	return p, nil
}
