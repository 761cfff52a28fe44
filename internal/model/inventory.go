package model

import "time"

type MovementType string

const (
	MovementEntry MovementType = "entrada"
	MovementExit  MovementType = "saida"
)

// Movement is one append-only ledger entry of a product.
type Movement struct {
	ID        string       `db:"id" json:"id"`
	ProductID string       `db:"product_id" json:"-"`
	Type      MovementType `db:"type" json:"tipo"`
	Quantity  int          `db:"quantity" json:"quantidade"`
	Note      string       `db:"note" json:"observacao,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"data"`
}
