package user

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user/dto"
)

type UseCase interface {
	CreateUser(ctx context.Context, input *dto.UserInput) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, input *dto.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}
