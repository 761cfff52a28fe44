package dto

type MovementRequest struct {
	Quantity int    `json:"quantidade"`
	Note     string `json:"observacao"`
}
