package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is immutable once persisted.
type Sale struct {
	ID        string          `db:"id" json:"id"`
	ActorName string          `db:"actor_name" json:"usuario"`
	ActorID   string          `db:"actor_id" json:"usuarioId"`
	ActorRole string          `db:"actor_role" json:"roleUsuario"`
	Items     []SaleItem      `db:"-" json:"itens"`
	Total     decimal.Decimal `db:"total" json:"total"`
	CreatedAt time.Time       `db:"created_at" json:"data"`
}

type SaleItem struct {
	SaleID    string          `db:"sale_id" json:"-"`
	Position  int             `db:"position" json:"-"`
	ProductID string          `db:"product_id" json:"produtoId"`
	Name      string          `db:"name" json:"nome"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"precoUnitario"`
	Quantity  int             `db:"quantity" json:"quantidade"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// AddItem appends a line priced at unitPrice and adds its subtotal to the total.
func (s *Sale) AddItem(productID, name string, unitPrice decimal.Decimal, qty int) SaleItem {
	item := SaleItem{
		SaleID:    s.ID,
		Position:  len(s.Items),
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  qty,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
	s.Items = append(s.Items, item)
	s.Total = s.Total.Add(item.Subtotal)
	return item
}
