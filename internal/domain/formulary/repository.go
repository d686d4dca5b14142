package formulary

import "context"

type Repository interface {
	List(ctx context.Context) ([]DrugProfile, error)
	GetByID(ctx context.Context, id DrugID) (DrugProfile, error)
}
