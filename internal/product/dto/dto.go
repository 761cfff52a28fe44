package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest is the JSON body of create and update. Quantity is honoured on
// create only.
type ProductRequest struct {
	Name             *string          `json:"nome"`
	Description      *string          `json:"descricao"`
	Manufacturer     *string          `json:"fabricante"`
	Dosage           *string          `json:"dosagem"`
	Price            *decimal.Decimal `json:"preco"`
	DosageForm       *string          `json:"formaFarmaceutica"`
	Quantity         *int             `json:"quantidadeEmEstoque"`
	ReorderThreshold *int             `json:"alertaMinimo"`
	ExpiresAt        *string          `json:"validade"`
	Barcode          *string          `json:"codigoBarras"`
	Controlled       *bool            `json:"controlado"`
	Active           *bool            `json:"ativo"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts an RFC 3339 timestamp or a plain date, read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
