package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(store.CollectionProducts)}
}

// EnsureIndexes creates the sparse unique barcode index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "codigoBarras", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, p *model.Product) error {
	doc, err := store.NewProductDocument(p)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var doc store.ProductDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Model()
}

func (r *MongoRepository) Update(ctx context.Context, p *model.Product) error {
	price, err := store.ToDecimal128(p.Price)
	if err != nil {
		return err
	}

	set := bson.M{
		"nome":              p.Name,
		"preco":             price,
		"formaFarmaceutica": string(p.DosageForm),
		"alertaMinimo":      p.ReorderThreshold,
		"controlado":        p.Controlled,
		"ativo":             p.Active,
	}
	unset := bson.M{}
	optional := map[string]interface{}{
		"descricao":    p.Description,
		"fabricante":   p.Manufacturer,
		"dosagem":      p.Dosage,
		"validade":     p.ExpiresAt,
		"codigoBarras": p.Barcode,
	}
	for field, v := range optional {
		switch val := v.(type) {
		case *string:
			if val == nil {
				unset[field] = ""
			} else {
				set[field] = *val
			}
		case *time.Time:
			if val == nil {
				unset[field] = ""
			} else {
				set[field] = *val
			}
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *MongoRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	filter := bson.M{"codigoBarras": barcode}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
