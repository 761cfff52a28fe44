package model

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrNotEnoughStock      = errors.New("not enough stock on hand")
	ErrStockOverflow       = errors.New("quantity exceeds the maximum stock on hand")
)

const DefaultReorderThreshold = 5

type Product struct {
	ID               string          `db:"id" json:"id"`
	Name             string          `db:"name" json:"nome"`
	Description      *string         `db:"description" json:"descricao,omitempty"`
	Manufacturer     *string         `db:"manufacturer" json:"fabricante,omitempty"`
	Dosage           *string         `db:"dosage" json:"dosagem,omitempty"`
	Price            decimal.Decimal `db:"price" json:"preco"`
	DosageForm       DosageForm      `db:"dosage_form" json:"formaFarmaceutica"`
	Quantity         int             `db:"quantity" json:"quantidadeEmEstoque"`
	ReorderThreshold int             `db:"reorder_threshold" json:"alertaMinimo"`
	ExpiresAt        *time.Time      `db:"expires_at" json:"validade,omitempty"`
	Barcode          *string         `db:"barcode" json:"codigoBarras,omitempty"`
	Controlled       bool            `db:"controlled" json:"controlado"`
	Active           bool            `db:"active" json:"ativo"`
	Version          int64           `db:"version" json:"version"`
	CreatedAt        time.Time       `db:"created_at" json:"dataCadastro"`
	Movements        []Movement      `db:"-" json:"historicoMovimentacao"`
}

// Receive adds qty to the stock on hand and appends the matching entry movement.
func (p *Product) Receive(id string, qty int, note string, at time.Time) (*Movement, error) {
	if qty <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if qty > math.MaxInt-p.Quantity {
		return nil, ErrStockOverflow
	}
	p.Quantity += qty
	return p.record(id, MovementEntry, qty, note, at), nil
}

// Withdraw removes qty from the stock on hand and appends the matching exit movement.
// The product is left untouched when qty exceeds the stock on hand.
func (p *Product) Withdraw(id string, qty int, note string, at time.Time) (*Movement, error) {
	if qty <= 0 {
		return nil, ErrNonPositiveQuantity
	}
	if p.Quantity < qty {
		return nil, ErrNotEnoughStock
	}
	p.Quantity -= qty
	return p.record(id, MovementExit, qty, note, at), nil
}

func (p *Product) record(id string, t MovementType, qty int, note string, at time.Time) *Movement {
	m := Movement{
		ID:        id,
		ProductID: p.ID,
		Type:      t,
		Quantity:  qty,
		Note:      note,
		CreatedAt: at,
	}
	p.Movements = append(p.Movements, m)
	return &m
}

// IsCriticalStock reports an active product at or below its reorder threshold.
func (p *Product) IsCriticalStock() bool {
	return p.Active && p.Quantity <= p.ReorderThreshold
}

// ExpiresWithin reports whether the expiry date falls in [from, to).
func (p *Product) ExpiresWithin(from, to time.Time) bool {
	if p.ExpiresAt == nil {
		return false
	}
	return !p.ExpiresAt.Before(from) && p.ExpiresAt.Before(to)
}

// CrossedThreshold reports a move from above the threshold to at or below it.
func CrossedThreshold(before, after, threshold int) bool {
	return before > threshold && after <= threshold
}
