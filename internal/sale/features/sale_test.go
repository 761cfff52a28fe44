package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-pharmacy-service/internal/auth"
	"github.com/fekuna/omnipos-pharmacy-service/internal/events"
	"github.com/fekuna/omnipos-pharmacy-service/internal/inventory"
	inventoryrepo "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/repository"
	inventoryuc "github.com/fekuna/omnipos-pharmacy-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale"
	"github.com/fekuna/omnipos-pharmacy-service/internal/sale/dto"
	salerepo "github.com/fekuna/omnipos-pharmacy-service/internal/sale/repository"
	saleuc "github.com/fekuna/omnipos-pharmacy-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-pharmacy-service/internal/store"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/logger"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"
)

var clock = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string][]any
}

func (p *recordingPublisher) Publish(_ context.Context, _, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[eventType] = append(p.events[eventType], payload)
	return nil
}

type saleTestContext struct {
	db        *store.MemDB
	sales     sale.UseCase
	inventory inventory.UseCase
	publisher *recordingPublisher
	result    *model.Sale
	err       error
}

func (c *saleTestContext) reset() error {
	db, err := store.NewMemDB()
	if err != nil {
		return err
	}
	products := inventoryrepo.NewMemRepository(db)
	c.db = db
	c.publisher = &recordingPublisher{events: map[string][]any{}}
	c.sales = saleuc.NewSaleUseCase(salerepo.NewMemRepository(db), products, db, c.publisher, nil,
		saleuc.Options{MaxConflictRetries: 3, Now: func() time.Time { return clock }}, logger.NewNop())
	c.inventory = inventoryuc.NewInventoryUseCase(products, db, c.publisher,
		inventoryuc.Options{MaxConflictRetries: 3, Now: func() time.Time { return clock }}, logger.NewNop())
	c.result = nil
	c.err = nil
	return nil
}

func (c *saleTestContext) aProductWithStock(id, name, price string, qty int) error {
	return c.aProductWithStockAndThreshold(id, name, price, qty, model.DefaultReorderThreshold)
}

func (c *saleTestContext) aProductWithStockAndThreshold(id, name, price string, qty, threshold int) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	return c.db.Write(context.Background(), func(txn *memdb.Txn) error {
		return c.db.PutProduct(txn, &model.Product{
			ID:               id,
			Name:             name,
			Price:            p,
			Quantity:         qty,
			ReorderThreshold: threshold,
			Active:           true,
			Version:          1,
			CreatedAt:        clock,
		})
	})
}

func (c *saleTestContext) registersASaleWith(actor string, table *godog.Table) error {
	lines := make([]dto.CartLine, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		lines = append(lines, dto.CartLine{ProductID: row.Cells[0].Value, Quantity: qty})
	}
	return c.register(actor, lines)
}

func (c *saleTestContext) registersASaleWithAnEmptyCart(actor string) error {
	return c.register(actor, nil)
}

func (c *saleTestContext) register(actor string, lines []dto.CartLine) error {
	c.result, c.err = c.sales.RegisterSale(context.Background(), &dto.RegisterSaleInput{
		Actor: auth.Actor{ID: "user-" + actor, Name: actor, Role: model.RoleUser},
		Items: lines,
	})
	return nil
}

func (c *saleTestContext) theSaleSucceedsWithTotal(total string) error {
	if c.err != nil {
		return fmt.Errorf("expected sale but got error: %v", c.err)
	}
	want, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	if !c.result.Total.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, c.result.Total)
	}

	sum := decimal.Zero
	for _, it := range c.result.Items {
		sum = sum.Add(it.Subtotal)
	}
	if !sum.Equal(c.result.Total) {
		return fmt.Errorf("subtotals add up to %s, total is %s", sum, c.result.Total)
	}
	return nil
}

func (c *saleTestContext) theSaleFailsWithInsufficientStock(name string, available int) error {
	var insufficient *inventory.InsufficientStockError
	if !errors.As(c.err, &insufficient) {
		return fmt.Errorf("expected insufficient stock, got %v", c.err)
	}
	if insufficient.ProductName != name || insufficient.Available != available {
		return fmt.Errorf("unexpected error details: %+v", insufficient)
	}
	return nil
}

func (c *saleTestContext) theSaleFailsBecauseProductWasNotFound(id string) error {
	var notFound *inventory.ProductNotFoundError
	if !errors.As(c.err, &notFound) {
		return fmt.Errorf("expected product not found, got %v", c.err)
	}
	if notFound.ProductID != id {
		return fmt.Errorf("expected product %q, got %q", id, notFound.ProductID)
	}
	return nil
}

func (c *saleTestContext) theSaleFailsBecauseTheCartIsEmpty() error {
	if !errors.Is(c.err, sale.ErrEmptyCart) {
		return fmt.Errorf("expected empty cart, got %v", c.err)
	}
	return nil
}

func (c *saleTestContext) product(id string) (*model.Product, error) {
	p, err := c.db.Product(c.db.Read(context.Background()), id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %q not stored", id)
	}
	return p, nil
}

func (c *saleTestContext) productHasInStock(id string, qty int) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	if p.Quantity != qty {
		return fmt.Errorf("expected %d in stock for %s, got %d", qty, id, p.Quantity)
	}
	return nil
}

func (c *saleTestContext) productHasMovements(id string, n int) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	if len(p.Movements) != n {
		return fmt.Errorf("expected %d movements for %s, got %d", n, id, len(p.Movements))
	}
	return nil
}

func (c *saleTestContext) theLastMovementIs(id, kind string, qty int, note string) error {
	p, err := c.product(id)
	if err != nil {
		return err
	}
	if len(p.Movements) == 0 {
		return fmt.Errorf("product %s has no movements", id)
	}
	m := p.Movements[len(p.Movements)-1]
	if string(m.Type) != kind || m.Quantity != qty || m.Note != note {
		return fmt.Errorf("unexpected last movement: %+v", m)
	}
	return nil
}

func (c *saleTestContext) salesAreRecorded(n int) error {
	sales, err := c.sales.ListSales(context.Background())
	if err != nil {
		return err
	}
	if len(sales) != n {
		return fmt.Errorf("expected %d sales, got %d", n, len(sales))
	}
	return nil
}

func (c *saleTestContext) noSaleIsRecorded() error {
	return c.salesAreRecorded(0)
}

func (c *saleTestContext) criticalStockContains(id string) (bool, error) {
	items, err := c.inventory.CriticalStock(context.Background())
	if err != nil {
		return false, err
	}
	for _, p := range items {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (c *saleTestContext) productIsInTheCriticalStockList(id string) error {
	ok, err := c.criticalStockContains(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected %s in the critical stock list", id)
	}
	return nil
}

func (c *saleTestContext) productIsNotInTheCriticalStockList(id string) error {
	ok, err := c.criticalStockContains(id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("did not expect %s in the critical stock list", id)
	}
	return nil
}

func (c *saleTestContext) aLowStockEventIsPublishedFor(id string) error {
	for _, e := range c.publisher.events[events.TypeLowStock] {
		if e.(events.LowStockPayload).ProductID == id {
			return nil
		}
	}
	return fmt.Errorf("no LowStock event for %s", id)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &saleTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given steps
	ctx.Step(`^a product "([^"]*)" named "([^"]*)" priced ([\d.]+) with (\d+) in stock$`, tc.aProductWithStock)
	ctx.Step(`^a product "([^"]*)" named "([^"]*)" priced ([\d.]+) with (\d+) in stock and threshold (\d+)$`, tc.aProductWithStockAndThreshold)

	// When steps
	ctx.Step(`^"([^"]*)" registers a sale with:$`, tc.registersASaleWith)
	ctx.Step(`^"([^"]*)" registers a sale with an empty cart$`, tc.registersASaleWithAnEmptyCart)

	// Then steps
	ctx.Step(`^the sale succeeds with total ([\d.]+)$`, tc.theSaleSucceedsWithTotal)
	ctx.Step(`^the sale fails with insufficient stock for "([^"]*)" with (\d+) available$`, tc.theSaleFailsWithInsufficientStock)
	ctx.Step(`^the sale fails because product "([^"]*)" was not found$`, tc.theSaleFailsBecauseProductWasNotFound)
	ctx.Step(`^the sale fails because the cart is empty$`, tc.theSaleFailsBecauseTheCartIsEmpty)
	ctx.Step(`^product "([^"]*)" has (\d+) in stock$`, tc.productHasInStock)
	ctx.Step(`^product "([^"]*)" has (\d+) movements?$`, tc.productHasMovements)
	ctx.Step(`^the last movement of "([^"]*)" is an? (entrada|saida) of (\d+) noted "([^"]*)"$`, tc.theLastMovementIs)
	ctx.Step(`^(\d+) sales? (?:is|are) recorded$`, tc.salesAreRecorded)
	ctx.Step(`^no sale is recorded$`, tc.noSaleIsRecorded)
	ctx.Step(`^product "([^"]*)" is in the critical stock list$`, tc.productIsInTheCriticalStockList)
	ctx.Step(`^product "([^"]*)" is not in the critical stock list$`, tc.productIsNotInTheCriticalStockList)
	ctx.Step(`^a LowStock event is published for "([^"]*)"$`, tc.aLowStockEventIsPublishedFor)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"register_sale.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
