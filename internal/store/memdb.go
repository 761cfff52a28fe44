package store

import (
	"context"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
)

const (
	TableProduct     = "product"
	TableMovement    = "movement"
	TableSale        = "sale"
	TableUser        = "user"
	TableAppointment = "appointment"
)

func memSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			TableProduct: {
				Name: TableProduct,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"barcode": {
						Name:         "barcode",
						Unique:       true,
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "Barcode"},
					},
				},
			},
			TableMovement: {
				Name: TableMovement,
				Indexes: map[string]*memdb.IndexSchema{
					"id":         {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"product_id": {Name: "product_id", Indexer: &memdb.StringFieldIndex{Field: "ProductID"}},
				},
			},
			TableSale: {
				Name: TableSale,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			TableUser: {
				Name: TableUser,
				Indexes: map[string]*memdb.IndexSchema{
					"id":    {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"email": {Name: "email", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true}},
				},
			},
			TableAppointment: {
				Name: TableAppointment,
				Indexes: map[string]*memdb.IndexSchema{
					"id":      {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"user_id": {Name: "user_id", Indexer: &memdb.StringFieldIndex{Field: "UserID"}},
				},
			},
		},
	}
}

// MemDB is the in-process store. A write transaction opened by WithinTransaction
// travels in the context; Abort discards every change made through it.
type MemDB struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

func NewMemDB() (*MemDB, error) {
	db, err := memdb.NewMemDB(memSchema())
	if err != nil {
		return nil, err
	}
	return &MemDB{db: db}, nil
}

type memTxnKey struct{}

func (m *MemDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxnKey{}).(*memdb.Txn); ok {
		return fn(ctx)
	}

	txn := m.db.Txn(true)
	if err := fn(context.WithValue(ctx, memTxnKey{}, txn)); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

// Read returns the write transaction bound to ctx, or a fresh read snapshot.
func (m *MemDB) Read(ctx context.Context) *memdb.Txn {
	if txn, ok := ctx.Value(memTxnKey{}).(*memdb.Txn); ok {
		return txn
	}
	return m.db.Txn(false)
}

// Write runs fn against the transaction bound to ctx, or in its own
// transaction committed when fn succeeds.
func (m *MemDB) Write(ctx context.Context, fn func(txn *memdb.Txn) error) error {
	if txn, ok := ctx.Value(memTxnKey{}).(*memdb.Txn); ok {
		return fn(txn)
	}

	txn := m.db.Txn(true)
	if err := fn(txn); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}
