package repository

import (
	"context"

	"hospital-management/internal/domain/entity"
)

type DrugRepository interface {
	Create(ctx context.Context, drug *entity.Drug) error
	FindByID(ctx context.Context, id int) (*entity.Drug, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]entity.Drug, int64, error)
	// UpdateDetails saves the catalogue columns; stock is written only when
	// withStock is set so concurrent dispenses and restocks are not overwritten.
	UpdateDetails(ctx context.Context, drug *entity.Drug, withStock bool) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	// DecrementStock takes quantity out of stock only if enough is on hand.
	DecrementStock(ctx context.Context, id int, quantity int) (int64, error)
	IncrementStock(ctx context.Context, id int, quantity int) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}
