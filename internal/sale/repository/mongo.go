package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type saleDocument struct {
	ID        string               `bson:"_id"`
	ActorName string               `bson:"usuario"`
	ActorID   string               `bson:"usuarioId"`
	ActorRole string               `bson:"roleUsuario"`
	Items     []saleItemDocument   `bson:"itens"`
	Total     primitive.Decimal128 `bson:"total"`
	CreatedAt time.Time            `bson:"data"`
}

type saleItemDocument struct {
	ProductID string               `bson:"produtoId"`
	Name      string               `bson:"nome"`
	UnitPrice primitive.Decimal128 `bson:"precoUnitario"`
	Quantity  int                  `bson:"quantidade"`
	Subtotal  primitive.Decimal128 `bson:"subtotal"`
}

func newSaleDocument(s *model.Sale) (*saleDocument, error) {
	total, err := store.ToDecimal128(s.Total)
	if err != nil {
		return nil, err
	}

	doc := &saleDocument{
		ID:        s.ID,
		ActorName: s.ActorName,
		ActorID:   s.ActorID,
		ActorRole: s.ActorRole,
		Items:     make([]saleItemDocument, 0, len(s.Items)),
		Total:     total,
		CreatedAt: s.CreatedAt,
	}
	for _, it := range s.Items {
		price, err := store.ToDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		subtotal, err := store.ToDecimal128(it.Subtotal)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, saleItemDocument{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
	}
	return doc, nil
}

func (d *saleDocument) model() (*model.Sale, error) {
	total, err := store.FromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}

	s := &model.Sale{
		ID:        d.ID,
		ActorName: d.ActorName,
		ActorID:   d.ActorID,
		ActorRole: d.ActorRole,
		Items:     make([]model.SaleItem, 0, len(d.Items)),
		Total:     total,
		CreatedAt: d.CreatedAt,
	}
	for i, it := range d.Items {
		price, err := store.FromDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		subtotal, err := store.FromDecimal128(it.Subtotal)
		if err != nil {
			return nil, err
		}
		s.Items = append(s.Items, model.SaleItem{
			SaleID:    d.ID,
			Position:  i,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: price,
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
	}
	return s, nil
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(store.CollectionSales)}
}

// Create joins the session transaction carried by ctx, if any.
func (r *MongoRepository) Create(ctx context.Context, s *model.Sale) error {
	doc, err := newSaleDocument(s)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]model.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	sales := make([]model.Sale, 0, len(docs))
	for i := range docs {
		s, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		sales = append(sales, *s)
	}
	return sales, nil
}
