package store

import (
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mongo collection names.
const (
	CollectionProducts     = "produtos"
	CollectionSales        = "vendas"
	CollectionUsers        = "usuarios"
	CollectionAppointments = "atendimentos"
)

func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func FromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(v.String())
}

type MovementDocument struct {
	ID        string    `bson:"id"`
	Type      string    `bson:"tipo"`
	Quantity  int       `bson:"quantidade"`
	Note      string    `bson:"observacao,omitempty"`
	CreatedAt time.Time `bson:"data"`
}

func NewMovementDocument(m *model.Movement) MovementDocument {
	return MovementDocument{
		ID:        m.ID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
	}
}

// ProductDocument embeds the ledger in the product document.
type ProductDocument struct {
	ID               string               `bson:"_id"`
	Name             string               `bson:"nome"`
	Description      *string              `bson:"descricao,omitempty"`
	Manufacturer     *string              `bson:"fabricante,omitempty"`
	Dosage           *string              `bson:"dosagem,omitempty"`
	Price            primitive.Decimal128 `bson:"preco"`
	DosageForm       string               `bson:"formaFarmaceutica"`
	Quantity         int                  `bson:"quantidadeEmEstoque"`
	ReorderThreshold int                  `bson:"alertaMinimo"`
	ExpiresAt        *time.Time           `bson:"validade,omitempty"`
	Barcode          *string              `bson:"codigoBarras,omitempty"`
	Controlled       bool                 `bson:"controlado"`
	Active           bool                 `bson:"ativo"`
	Version          int64                `bson:"version"`
	CreatedAt        time.Time            `bson:"dataCadastro"`
	Movements        []MovementDocument   `bson:"historicoMovimentacao"`
}

func NewProductDocument(p *model.Product) (*ProductDocument, error) {
	price, err := ToDecimal128(p.Price)
	if err != nil {
		return nil, err
	}

	doc := &ProductDocument{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Manufacturer:     p.Manufacturer,
		Dosage:           p.Dosage,
		Price:            price,
		DosageForm:       string(p.DosageForm),
		Quantity:         p.Quantity,
		ReorderThreshold: p.ReorderThreshold,
		ExpiresAt:        p.ExpiresAt,
		Barcode:          p.Barcode,
		Controlled:       p.Controlled,
		Active:           p.Active,
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		Movements:        make([]MovementDocument, 0, len(p.Movements)),
	}
	for i := range p.Movements {
		doc.Movements = append(doc.Movements, NewMovementDocument(&p.Movements[i]))
	}
	return doc, nil
}

func (d *ProductDocument) Model() (*model.Product, error) {
	price, err := FromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		ID:               d.ID,
		Name:             d.Name,
		Description:      d.Description,
		Manufacturer:     d.Manufacturer,
		Dosage:           d.Dosage,
		Price:            price,
		DosageForm:       model.DosageForm(d.DosageForm),
		Quantity:         d.Quantity,
		ReorderThreshold: d.ReorderThreshold,
		ExpiresAt:        d.ExpiresAt,
		Barcode:          d.Barcode,
		Controlled:       d.Controlled,
		Active:           d.Active,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		Movements:        MovementsFromDocuments(d.ID, d.Movements),
	}
	if p.ExpiresAt != nil {
		t := p.ExpiresAt.UTC()
		p.ExpiresAt = &t
	}
	return p, nil
}

func MovementsFromDocuments(productID string, docs []MovementDocument) []model.Movement {
	out := make([]model.Movement, 0, len(docs))
	for _, m := range docs {
		out = append(out, model.Movement{
			ID:        m.ID,
			ProductID: productID,
			Type:      model.MovementType(m.Type),
			Quantity:  m.Quantity,
			Note:      m.Note,
			CreatedAt: m.CreatedAt.UTC(),
		})
	}
	return out
}

// ProductDocuments converts decoded documents in order.
func ProductDocuments(docs []ProductDocument) ([]model.Product, error) {
	out := make([]model.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].Model()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
