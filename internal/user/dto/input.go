package dto

import "github.com/fekuna/omnipos-pharmacy-service/internal/model"

// UserInput serves create (ID empty) and update.
type UserInput struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
	Active   *bool
}

type LoginResult struct {
	User  *model.User
	Token string
}
