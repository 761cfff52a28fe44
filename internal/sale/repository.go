package sale

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type Repository interface {
	// Create stores the sale with its items. It joins the transaction carried by ctx.
	Create(ctx context.Context, s *model.Sale) error

	// FindAll returns every sale, newest first.
	FindAll(ctx context.Context) ([]model.Sale, error)
}
