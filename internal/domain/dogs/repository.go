package dogs

import "context"

// ListFilter replica el contrato del endpoint de listado: si Prediction
// viene (y no es "All"), gana sobre Search.
type ListFilter struct {
	Search     string
	Prediction string
	Offset     int
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, d Dog) error
	Update(ctx context.Context, d Dog) error
	GetByID(ctx context.Context, id string) (Dog, error)
	Delete(ctx context.Context, id string) error

	// List devuelve la página pedida y el total de registros que
	// matchean el filtro (para armar el envelope de paginación).
	List(ctx context.Context, f ListFilter) ([]Dog, int, error)

	Count(ctx context.Context) (int, error)
}
