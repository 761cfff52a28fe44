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

type appointmentDocument struct {
	ID          string    `bson:"_id"`
	UserName    string    `bson:"usuario"`
	UserID      string    `bson:"usuarioId"`
	ScheduledAt time.Time `bson:"dataHora"`
	Type        string    `bson:"tipo"`
	Note        string    `bson:"observacao,omitempty"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"criadoEm"`
}

func (d *appointmentDocument) model() model.Appointment {
	return model.Appointment{
		ID:          d.ID,
		UserName:    d.UserName,
		UserID:      d.UserID,
		ScheduledAt: d.ScheduledAt.UTC(),
		Type:        model.AppointmentType(d.Type),
		Note:        d.Note,
		Status:      model.AppointmentStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(store.CollectionAppointments)}
}

// EnsureIndexes backs the per-user listing.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "usuarioId", Value: 1}, {Key: "dataHora", Value: 1}},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, a *model.Appointment) error {
	_, err := r.collection.InsertOne(ctx, appointmentDocument{
		ID:          a.ID,
		UserName:    a.UserName,
		UserID:      a.UserID,
		ScheduledAt: a.ScheduledAt,
		Type:        string(a.Type),
		Note:        a.Note,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	})
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	var doc appointmentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	a := doc.model()
	return &a, nil
}

func (r *MongoRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	filter := bson.M{}
	if userID != "" {
		filter["usuarioId"] = userID
	}
	opts := options.Find().SetSort(bson.D{{Key: "dataHora", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []appointmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]model.Appointment, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].model())
	}
	return items, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	return err
}
