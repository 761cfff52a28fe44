package store

import (
	"sort"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/hashicorp/go-memdb"
)

// memMovement keeps the append order of a ledger entry.
type memMovement struct {
	model.Movement
	Seq uint64
}

// Product loads a copy of the product with its ledger, or nil when absent.
func (m *MemDB) Product(txn *memdb.Txn, id string) (*model.Product, error) {
	raw, err := txn.First(TableProduct, "id", id)
	if err != nil || raw == nil {
		return nil, err
	}
	p := *raw.(*model.Product)

	movements, err := m.Movements(txn, id)
	if err != nil {
		return nil, err
	}
	p.Movements = movements
	return &p, nil
}

// PutProduct stores a copy of p. The ledger is kept apart; see AppendMovement.
func (m *MemDB) PutProduct(txn *memdb.Txn, p *model.Product) error {
	cp := *p
	cp.Movements = nil
	return txn.Insert(TableProduct, &cp)
}

func (m *MemDB) AppendMovement(txn *memdb.Txn, mv model.Movement) error {
	return txn.Insert(TableMovement, &memMovement{Movement: mv, Seq: m.seq.Add(1)})
}

// Movements returns the ledger of a product oldest first.
func (m *MemDB) Movements(txn *memdb.Txn, productID string) ([]model.Movement, error) {
	it, err := txn.Get(TableMovement, "product_id", productID)
	if err != nil {
		return nil, err
	}

	var rows []*memMovement
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rows = append(rows, obj.(*memMovement))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })

	out := make([]model.Movement, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Movement)
	}
	return out, nil
}

// DeleteProduct removes the product and its ledger.
func (m *MemDB) DeleteProduct(txn *memdb.Txn, id string) error {
	if _, err := txn.DeleteAll(TableMovement, "product_id", id); err != nil {
		return err
	}
	return txn.Delete(TableProduct, &model.Product{ID: id})
}

// Products returns every product matching keep, each with its ledger.
func (m *MemDB) Products(txn *memdb.Txn, keep func(*model.Product) bool) ([]model.Product, error) {
	it, err := txn.Get(TableProduct, "id")
	if err != nil {
		return nil, err
	}

	var out []model.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p := *obj.(*model.Product)
		if !keep(&p) {
			continue
		}
		if p.Movements, err = m.Movements(txn, p.ID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
