package dto

import "github.com/fekuna/omnipos-pharmacy-service/internal/auth"

type CartLine struct {
	ProductID string
	Quantity  int
}

type RegisterSaleInput struct {
	Actor          auth.Actor
	Items          []CartLine
	IdempotencyKey string
}
