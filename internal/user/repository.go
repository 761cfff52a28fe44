package user

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

type Repository interface {
	// Create and Update return store.ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}
