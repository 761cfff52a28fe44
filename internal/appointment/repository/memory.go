package repository

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/hashicorp/go-memdb"
)

type MemRepository struct {
	db *store.MemDB
}

func NewMemRepository(db *store.MemDB) *MemRepository {
	return &MemRepository{db: db}
}

func (r *MemRepository) Create(ctx context.Context, a *model.Appointment) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		stored := *a
		return txn.Insert(store.TableAppointment, &stored)
	})
}

func (r *MemRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	raw, err := r.db.Read(ctx).First(store.TableAppointment, "id", id)
	if err != nil || raw == nil {
		return nil, err
	}
	a := *raw.(*model.Appointment)
	return &a, nil
}

func (r *MemRepository) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	var (
		it  memdb.ResultIterator
		err error
	)
	txn := r.db.Read(ctx)
	if userID == "" {
		it, err = txn.Get(store.TableAppointment, "id")
	} else {
		it, err = txn.Get(store.TableAppointment, "user_id", userID)
	}
	if err != nil {
		return nil, err
	}

	items := []model.Appointment{}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		items = append(items, *raw.(*model.Appointment))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].ScheduledAt.Before(items[j].ScheduledAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *MemRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	return r.db.Write(ctx, func(txn *memdb.Txn) error {
		raw, err := txn.First(store.TableAppointment, "id", id)
		if err != nil || raw == nil {
			return err
		}
		next := *raw.(*model.Appointment)
		next.Status = status
		return txn.Insert(store.TableAppointment, &next)
	})
}
