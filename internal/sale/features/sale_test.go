package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-pos-service/internal/cart"
	cartdto "github.com/fekuna/omnipos-pos-service/internal/cart/dto"
	cartrepo "github.com/fekuna/omnipos-pos-service/internal/cart/repository"
	cartuc "github.com/fekuna/omnipos-pos-service/internal/cart/usecase"
	inventoryrepo "github.com/fekuna/omnipos-pos-service/internal/inventory/repository"
	inventoryuc "github.com/fekuna/omnipos-pos-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	productrepo "github.com/fekuna/omnipos-pos-service/internal/product/repository"
	"github.com/fekuna/omnipos-pos-service/internal/sale"
	"github.com/fekuna/omnipos-pos-service/internal/sale/dto"
	salerepo "github.com/fekuna/omnipos-pos-service/internal/sale/repository"
	saleuc "github.com/fekuna/omnipos-pos-service/internal/sale/usecase"
	"github.com/fekuna/omnipos-pos-service/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type saleTestContext struct {
	t        *testing.T
	db       *sqlx.DB
	cart     cart.UseCase
	sales    sale.UseCase
	products map[string]string
	last     *dto.ProcessSaleOutput
	err      error
}

func (c *saleTestContext) reset() {
	log := logger.Nop()
	c.db = testutil.NewDB(c.t)
	tx := postgres.NewTransactor(c.db)
	stock := inventoryuc.NewInventoryUseCase(inventoryrepo.NewPGRepository(c.db), tx, nil, log)

	c.cart = cartuc.NewCartUseCase(cartrepo.NewPGRepository(c.db), productrepo.NewPGRepository(c.db), log)
	c.sales = saleuc.NewSaleUseCase(saleuc.Deps{
		Repo:   salerepo.NewPGRepository(c.db),
		Cart:   cartrepo.NewPGRepository(c.db),
		Stock:  stock,
		Tx:     tx,
		Logger: log,
	})
	c.products = map[string]string{}
	c.last = nil
	c.err = nil
}

func (c *saleTestContext) aProductPricedWithUnitsInStock(barcode, price string, stok int) error {
	c.products[barcode] = testutil.InsertProduct(c.t, c.db, barcode, "Product "+barcode, price, stok)
	return nil
}

func (c *saleTestContext) theCartHoldsOf(count int, barcode string) error {
	_, err := c.cart.AddOrIncrement(context.Background(), &cartdto.AddItemInput{Barcode: barcode, Count: count})
	return err
}

func (c *saleTestContext) theCashierChargesTheCart() error {
	c.last, c.err = c.sales.ProcessSale(context.Background(), &dto.ProcessSaleInput{
		InvoiceType: model.InvoiceNone,
		PaymentType: model.PaymentCash,
		UserID:      "cashier",
	})
	return nil
}

func (c *saleTestContext) theSaleTotalIs(total string) error {
	if c.err != nil {
		return fmt.Errorf("expected a sale but got error: %w", c.err)
	}
	if c.last.Empty() {
		return errors.New("expected a sale but the cart was empty")
	}
	want := decimal.RequireFromString(total)
	if !c.last.Total.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, c.last.Total)
	}
	return nil
}

func (c *saleTestContext) hasUnitsInStockAndSold(barcode string, stok, sold int) error {
	gotStok, gotSold := testutil.ProductStock(c.t, c.db, c.products[barcode])
	if gotStok != stok || gotSold != sold {
		return fmt.Errorf("%s: expected stok %d sold %d, got stok %d sold %d", barcode, stok, sold, gotStok, gotSold)
	}
	return nil
}

func (c *saleTestContext) theCartHoldsLines(n int) error {
	summary, err := c.cart.ListItems(context.Background())
	if err != nil {
		return err
	}
	if len(summary.Items) != n {
		return fmt.Errorf("expected %d cart lines, got %d", n, len(summary.Items))
	}
	return nil
}

func (c *saleTestContext) theCartIsEmpty() error {
	return c.theCartHoldsLines(0)
}

func (c *saleTestContext) noSaleIsRecorded() error {
	var n int
	if err := c.db.Get(&n, `SELECT count(*) FROM sales`); err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("expected no sales, found %d", n)
	}
	return nil
}

func (c *saleTestContext) theSaleFailsWithInsufficientStock() error {
	if !errors.Is(c.err, model.ErrInsufficientStock) {
		return fmt.Errorf("expected insufficient stock, got %v", c.err)
	}
	return nil
}

func (c *saleTestContext) annul() (*dto.AnnulOutput, error) {
	if c.err != nil || c.last == nil || c.last.Empty() {
		return nil, fmt.Errorf("no sale to annul (last error: %v)", c.err)
	}
	return c.sales.Annul(context.Background(), &dto.AnnulInput{SaleID: c.last.Sale.ID, UserID: "supervisor"})
}

func (c *saleTestContext) theCashierAnnulsTheSale() error {
	out, err := c.annul()
	if err != nil {
		return err
	}
	if out.AlreadyAnnulled {
		return errors.New("sale was unexpectedly annulled already")
	}
	return nil
}

func (c *saleTestContext) annullingTheSaleAgainReportsItWasAlreadyAnnulled() error {
	out, err := c.annul()
	if err != nil {
		return err
	}
	if !out.AlreadyAnnulled {
		return errors.New("expected the second annulment to be a no-op")
	}
	return nil
}

func initializeScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &saleTestContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^a product "([^"]*)" priced (\d+\.\d{2}) with (\d+) units in stock$`, tc.aProductPricedWithUnitsInStock)
		ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, tc.theCartHoldsOf)
		ctx.Step(`^the cart holds (\d+) lines$`, tc.theCartHoldsLines)
		ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
		ctx.Step(`^the cashier charges the cart$`, tc.theCashierChargesTheCart)
		ctx.Step(`^the cashier annuls the sale$`, tc.theCashierAnnulsTheSale)
		ctx.Step(`^the sale total is (\d+\.\d{2})$`, tc.theSaleTotalIs)
		ctx.Step(`^"([^"]*)" has (\d+) units in stock and (\d+) sold$`, tc.hasUnitsInStockAndSold)
		ctx.Step(`^no sale is recorded$`, tc.noSaleIsRecorded)
		ctx.Step(`^the sale fails with insufficient stock$`, tc.theSaleFailsWithInsufficientStock)
		ctx.Step(`^annulling the sale again reports it was already annulled$`, tc.annullingTheSaleAgainReportsItWasAlreadyAnnulled)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"sale.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
