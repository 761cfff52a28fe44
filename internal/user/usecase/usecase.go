package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user"
	"github.com/fekuna/omnipos-pharmacy-service/internal/user/dto"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Options struct {
	BcryptCost int
	Now        func() time.Time
}

type userUseCase struct {
	repo   user.Repository
	tokens user.TokenIssuer
	opts   Options
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, tokens user.TokenIssuer, opts Options, log logger.ZapLogger) user.UseCase {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &userUseCase{
		repo:   repo,
		tokens: tokens,
		opts:   opts,
		logger: log,
	}
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.UserInput) (*model.User, error) {
	u := &model.User{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Active:    true,
		CreatedAt: uc.opts.Now().UTC(),
	}
	if err := uc.apply(u, input); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, user.ErrEmailTaken
		}
		return nil, store.Wrap("create user", err)
	}

	uc.logger.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, store.Wrap("find user", err)
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, input *dto.UserInput) (*model.User, error) {
	u, err := uc.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(u, input); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, user.ErrEmailTaken
		}
		return nil, store.Wrap("update user", err)
	}
	return u, nil
}

// apply validates input and copies it onto u, hashing the password.
func (uc *userUseCase) apply(u *model.User, input *dto.UserInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return user.ErrFieldsRequired
	}
	if len(input.Password) < minPasswordLength {
		return user.ErrPasswordTooShort
	}
	if input.Role != "" {
		role := model.Role(strings.ToUpper(input.Role))
		if !role.Valid() {
			return user.ErrInvalidRole
		}
		u.Role = role
	}
	if input.Active != nil {
		u.Active = *input.Active
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.opts.BcryptCost)
	if err != nil {
		return err
	}

	u.Name = name
	u.Email = email
	u.PasswordHash = string(hash)
	return nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.GetUser(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return store.Wrap("delete user", err)
	}
	return nil
}

// Login fails the same way for unknown emails, wrong passwords and inactive users.
func (uc *userUseCase) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	u, err := uc.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, store.Wrap("find user by email", err)
	}
	if u == nil || !u.Active {
		return nil, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", zap.String("user_id", u.ID))
	return &dto.LoginResult{User: u, Token: token}, nil
}
