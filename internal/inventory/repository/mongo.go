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

func (r *MongoRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var doc store.ProductDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Model()
}

// ApplyMovement is a single-document update, atomic without a session.
func (r *MongoRepository) ApplyMovement(ctx context.Context, p *model.Product, m *model.Movement) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": p.ID, "version": p.Version},
		bson.M{
			"$set":  bson.M{"quantidadeEmEstoque": p.Quantity},
			"$inc":  bson.M{"version": 1},
			"$push": bson.M{"historicoMovimentacao": store.NewMovementDocument(m)},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrVersionConflict
	}

	p.Version++
	return nil
}

func (r *MongoRepository) ListMovements(ctx context.Context, productID string) ([]model.Movement, error) {
	var doc struct {
		Movements []store.MovementDocument `bson:"historicoMovimentacao"`
	}
	opts := options.FindOne().SetProjection(bson.M{"historicoMovimentacao": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": productID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return store.MovementsFromDocuments(productID, doc.Movements), nil
}

func (r *MongoRepository) ListCriticalStock(ctx context.Context) ([]model.Product, error) {
	filter := bson.M{
		"ativo": true,
		"$expr": bson.M{"$lte": bson.A{"$quantidadeEmEstoque", "$alertaMinimo"}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "quantidadeEmEstoque", Value: 1}, {Key: "nome", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]model.Product, error) {
	filter := bson.M{"validade": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "validade", Value: 1}, {Key: "nome", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []store.ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return store.ProductDocuments(docs)
}
