package dto

type MovementInput struct {
	ProductID string
	Quantity  int
	Note      string
}
