// Package favorites keeps the concursos the user marked as favorite.
package favorites

import (
	"context"

	"github.com/dmitrijs2005/espm/internal/client/models"
)

type Repository interface {
	Add(ctx context.Context, c models.Concurso) error
	Remove(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
	List(ctx context.Context) ([]models.Concurso, error)
	IDs(ctx context.Context) ([]int, error)
}
