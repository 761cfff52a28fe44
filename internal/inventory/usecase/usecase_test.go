package usecase_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type published struct {
	eventType string
	payload   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, _, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{eventType, payload})
	return nil
}

type fixture struct {
	db  *store.MemDB
	pub *recordingPublisher
	uc  inventory.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.NewMemDB()
	require.NoError(t, err)

	pub := &recordingPublisher{}
	uc := usecase.NewInventoryUseCase(repository.NewMemRepository(db), db, pub, usecase.Options{
		ExpiryWindowDays:   7,
		MaxConflictRetries: 3,
		Now:                func() time.Time { return now },
	}, logger.NewNop())

	return &fixture{db: db, pub: pub, uc: uc}
}

func (f *fixture) seed(t *testing.T, products ...*model.Product) {
	t.Helper()
	require.NoError(t, f.db.Write(context.Background(), func(txn *memdb.Txn) error {
		for _, p := range products {
			if p.Version == 0 {
				p.Version = 1
			}
			if err := f.db.PutProduct(txn, p); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (f *fixture) product(t *testing.T, id string) *model.Product {
	t.Helper()
	p, err := f.db.Product(f.db.Read(context.Background()), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestRecordEntryThenExitRestoresQuantity(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Price: decimal.NewFromInt(5), Quantity: 10, ReorderThreshold: 5, Active: true})
	ctx := context.Background()

	p, err := f.uc.RecordEntry(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 4, Note: "Compra"})
	require.NoError(t, err)
	assert.Equal(t, 14, p.Quantity)

	p, err = f.uc.RecordExit(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 4, Note: "Devolução"})
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)

	stored := f.product(t, "p1")
	assert.Equal(t, 10, stored.Quantity)
	assert.Equal(t, int64(3), stored.Version)
	require.Len(t, stored.Movements, 2)
	assert.Equal(t, model.MovementEntry, stored.Movements[0].Type)
	assert.Equal(t, 4, stored.Movements[0].Quantity)
	assert.Equal(t, "Compra", stored.Movements[0].Note)
	assert.Equal(t, model.MovementExit, stored.Movements[1].Type)
	assert.Equal(t, now, stored.Movements[1].CreatedAt)
}

func TestRecordExit_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Quantity: 2, Active: true})

	_, err := f.uc.RecordExit(context.Background(), &dto.MovementInput{ProductID: "p1", Quantity: 3})

	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	stored := f.product(t, "p1")
	assert.Equal(t, 2, stored.Quantity)
	assert.Empty(t, stored.Movements)
}

func TestRecordMovement_Rejections(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Quantity: 2, Active: true})
	ctx := context.Background()

	_, err := f.uc.RecordEntry(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = f.uc.RecordExit(ctx, &dto.MovementInput{ProductID: "p1", Quantity: -2})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	_, err = f.uc.RecordEntry(ctx, &dto.MovementInput{ProductID: "missing", Quantity: 1})
	var notFound *inventory.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)

	assert.Empty(t, f.product(t, "p1").Movements)
}

func TestRecordEntry_RejectsStockOverflow(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Quantity: 10, Active: true})

	_, err := f.uc.RecordEntry(context.Background(), &dto.MovementInput{ProductID: "p1", Quantity: math.MaxInt})
	assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)

	stored := f.product(t, "p1")
	assert.Equal(t, 10, stored.Quantity)
	assert.Empty(t, stored.Movements)
}

func TestRecordExit_PublishesLowStockOnCrossing(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Quantity: 7, ReorderThreshold: 5, Active: true})
	ctx := context.Background()

	_, err := f.uc.RecordExit(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, f.pub.events)

	_, err = f.uc.RecordExit(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.TypeLowStock, f.pub.events[0].eventType)
	assert.Equal(t, 5, f.pub.events[0].payload.(events.LowStockPayload).Quantity)

	// already below: no second event
	_, err = f.uc.RecordExit(ctx, &dto.MovementInput{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, f.pub.events, 1)
}

// conflictingRepo fails the first n ApplyMovement calls with a version conflict.
type conflictingRepo struct {
	inventory.Repository
	n     int
	calls int
}

func (r *conflictingRepo) ApplyMovement(ctx context.Context, p *model.Product, m *model.Movement) error {
	r.calls++
	if r.calls <= r.n {
		return store.ErrVersionConflict
	}
	return r.Repository.ApplyMovement(ctx, p, m)
}

func TestRecordEntry_RetriesVersionConflicts(t *testing.T) {
	db, err := store.NewMemDB()
	require.NoError(t, err)
	repo := &conflictingRepo{Repository: repository.NewMemRepository(db), n: 2}
	uc := usecase.NewInventoryUseCase(repo, db, events.NoopPublisher{}, usecase.Options{MaxConflictRetries: 3}, logger.NewNop())

	require.NoError(t, db.Write(context.Background(), func(txn *memdb.Txn) error {
		return db.PutProduct(txn, &model.Product{ID: "p1", Quantity: 1, Version: 1})
	}))

	p, err := uc.RecordEntry(context.Background(), &dto.MovementInput{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, 3, repo.calls)

	stored, err := db.Product(db.Read(context.Background()), "p1")
	require.NoError(t, err)
	assert.Len(t, stored.Movements, 1)
}

func TestRecordEntry_ExhaustedConflicts(t *testing.T) {
	db, err := store.NewMemDB()
	require.NoError(t, err)
	repo := &conflictingRepo{Repository: repository.NewMemRepository(db), n: 10}
	uc := usecase.NewInventoryUseCase(repo, db, events.NoopPublisher{}, usecase.Options{MaxConflictRetries: 3}, logger.NewNop())

	require.NoError(t, db.Write(context.Background(), func(txn *memdb.Txn) error {
		return db.PutProduct(txn, &model.Product{ID: "p1", Quantity: 1, Version: 1})
	}))

	_, err = uc.RecordEntry(context.Background(), &dto.MovementInput{ProductID: "p1", Quantity: 2})
	assert.ErrorIs(t, err, inventory.ErrConcurrentUpdate)
	assert.Equal(t, 3, repo.calls)
}

func TestCriticalStock_ThresholdIsInclusive(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		&model.Product{ID: "c", Name: "C", Quantity: 5, ReorderThreshold: 5, Active: true},
		&model.Product{ID: "d", Name: "D", Quantity: 6, ReorderThreshold: 5, Active: true},
		&model.Product{ID: "e", Name: "E", Quantity: 0, ReorderThreshold: 5, Active: false},
		&model.Product{ID: "f", Name: "F", Quantity: 1, ReorderThreshold: 5, Active: true},
	)

	items, err := f.uc.CriticalStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "f", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}

func TestCriticalExpiry_WindowBounds(t *testing.T) {
	f := newFixture(t)
	day := func(d int, hour int) *time.Time {
		v := time.Date(2026, 3, 10+d, hour, 0, 0, 0, time.UTC)
		return &v
	}
	f.seed(t,
		&model.Product{ID: "yesterday", Name: "A", ExpiresAt: day(-1, 23)},
		&model.Product{ID: "today-early", Name: "B", ExpiresAt: day(0, 0)},
		&model.Product{ID: "last-day", Name: "C", ExpiresAt: day(7, 23)},
		&model.Product{ID: "too-late", Name: "D", ExpiresAt: day(8, 0)},
		&model.Product{ID: "no-expiry", Name: "E"},
	)

	items, err := f.uc.CriticalExpiry(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"today-early", "last-day"}, ids)
}

func TestExpiryWindow(t *testing.T) {
	from, to := usecase.ExpiryWindow(time.Date(2026, 12, 28, 23, 59, 0, 0, time.FixedZone("BRT", -3*3600)), 7)
	assert.Equal(t, time.Date(2026, 12, 29, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 1, 6, 0, 0, 0, 0, time.UTC), to)
}

func TestListMovements(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &model.Product{ID: "p1", Name: "Dipirona", Quantity: 1})
	ctx := context.Background()

	movements, err := f.uc.ListMovements(ctx, "p1")
	require.NoError(t, err)
	assert.NotNil(t, movements)
	assert.Empty(t, movements)

	_, err = f.uc.ListMovements(ctx, "missing")
	assert.True(t, errors.Is(err, inventory.ErrProductNotFound))
}
