package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/cart"
	inventorydto "github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/product"
	"github.com/fekuna/omnipos-pos-service/internal/sale"
	"github.com/fekuna/omnipos-pos-service/internal/sale/dto"
	"github.com/fekuna/omnipos-pos-service/internal/sale/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stockReferenceSale = "sale"

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// StockLedger applies the stock and sales-counter side of a sale.
type StockLedger interface {
	RecordSale(ctx context.Context, ref *inventorydto.StockReference, lines []inventorydto.StockLine) error
	RecordAnnulment(ctx context.Context, ref *inventorydto.StockReference, lines []inventorydto.StockLine) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, sale *model.Sale, details []model.SaleDetail) error
}

type Deps struct {
	Repo   sale.Repository
	Cart   cart.Repository
	Stock  StockLedger
	Tx     Transactor
	Events EventPublisher   // optional
	Cache  cache.Cache      // optional
	Loc    *time.Location   // month boundaries; UTC when nil
	Now    func() time.Time // time.Now when nil
	Logger logger.ZapLogger
}

type saleUseCase struct {
	repo   sale.Repository
	cart   cart.Repository
	stock  StockLedger
	tx     Transactor
	events EventPublisher
	cache  cache.Cache
	loc    *time.Location
	now    func() time.Time
	logger logger.ZapLogger
}

func NewSaleUseCase(d Deps) sale.UseCase {
	uc := &saleUseCase{
		repo:   d.Repo,
		cart:   d.Cart,
		stock:  d.Stock,
		tx:     d.Tx,
		events: d.Events,
		cache:  d.Cache,
		loc:    d.Loc,
		now:    d.Now,
		logger: d.Logger,
	}
	if uc.loc == nil {
		uc.loc = time.UTC
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

func stockLines(details []model.SaleDetail) []inventorydto.StockLine {
	lines := make([]inventorydto.StockLine, len(details))
	for i, d := range details {
		lines[i] = inventorydto.StockLine{ProductID: d.ProductID, Quantity: d.Count}
	}
	return lines
}

// ProcessSale turns the cart into a sale. Sale, details, stock and the
// emptied cart commit together or not at all.
func (uc *saleUseCase) ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.ProcessSaleOutput, error) {
	if !input.InvoiceType.Valid() {
		return nil, fmt.Errorf("%w: invalid invoice type %q", model.ErrValidation, input.InvoiceType)
	}
	if !input.PaymentType.Valid() {
		return nil, fmt.Errorf("%w: invalid payment type %q", model.ErrValidation, input.PaymentType)
	}

	out := &dto.ProcessSaleOutput{}
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		lines, err := uc.cart.ListLines(ctx)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		now := uc.now().UTC()
		s := &model.Sale{
			BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			DateSale:    now,
			InvoiceType: input.InvoiceType,
			PaymentType: input.PaymentType,
			UserID:      input.UserID,
		}
		if err := uc.repo.Create(ctx, s); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		details := make([]model.SaleDetail, len(lines))
		for i, l := range lines {
			details[i] = model.SaleDetail{
				ID:            uuid.New().String(),
				SaleID:        s.ID,
				ProductID:     l.ProductID,
				ProductName:   l.ProductName,
				Count:         l.Count,
				PricePurchase: l.PricePurchase,
				PriceSale:     l.PriceSale,
				CreatedAt:     now,
				LineTotal:     l.Subtotal(),
			}
		}
		if err := uc.repo.CreateDetails(ctx, details); err != nil {
			return fmt.Errorf("create sale details: %w", err)
		}

		ref := &inventorydto.StockReference{Type: stockReferenceSale, ID: s.ID, UserID: input.UserID}
		if err := uc.stock.RecordSale(ctx, ref, stockLines(details)); err != nil {
			return err
		}

		if _, err := uc.cart.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		s.Details = details
		out.Sale = s
		out.Details = details
		out.Total = model.SaleTotal(details)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Empty() {
		uc.logger.Info("sale skipped, cart is empty", zap.String("user_id", input.UserID))
		return out, nil
	}

	uc.logger.Info("sale processed",
		zap.String("sale_id", out.Sale.ID),
		zap.Int("lines", len(out.Details)),
		zap.String("total", out.Total.StringFixed(2)),
	)
	uc.afterCommit(ctx, events.SaleProcessed, out.Sale, out.Details)
	return out, nil
}

// Annul marks the sale annulled and gives its stock back. A second call for
// the same sale changes nothing.
func (uc *saleUseCase) Annul(ctx context.Context, input *dto.AnnulInput) (*dto.AnnulOutput, error) {
	out := &dto.AnnulOutput{}
	var details []model.SaleDetail

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		changed, err := uc.repo.MarkAnnulled(ctx, input.SaleID)
		if err != nil {
			return err
		}

		s, err := uc.repo.FindByID(ctx, input.SaleID)
		if err != nil {
			return err
		}
		out.Sale = s
		if !changed {
			out.AlreadyAnnulled = true
			return nil
		}

		details, err = uc.repo.FindDetails(ctx, []string{s.ID})
		if err != nil {
			return err
		}
		s.Details = details

		ref := &inventorydto.StockReference{Type: stockReferenceSale, ID: s.ID, UserID: input.UserID}
		return uc.stock.RecordAnnulment(ctx, ref, stockLines(details))
	})
	if err != nil {
		return nil, err
	}

	if out.AlreadyAnnulled {
		uc.logger.Info("sale already annulled", zap.String("sale_id", input.SaleID))
		return out, nil
	}

	uc.logger.Info("sale annulled", zap.String("sale_id", input.SaleID), zap.String("user_id", input.UserID))
	uc.afterCommit(ctx, events.SaleAnnulled, out.Sale, details)
	return out, nil
}

func (uc *saleUseCase) UnclosedSales(ctx context.Context) ([]model.Sale, error) {
	return uc.withDetails(ctx, false)
}

func (uc *saleUseCase) withDetails(ctx context.Context, includeAnnulled bool) ([]model.Sale, error) {
	sales, err := uc.repo.ListUnclosed(ctx, includeAnnulled)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]string, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	details, err := uc.repo.FindDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	bySale := make(map[string][]model.SaleDetail, len(sales))
	for _, d := range details {
		bySale[d.SaleID] = append(bySale[d.SaleID], d)
	}
	for i := range sales {
		sales[i].Details = bySale[sales[i].ID]
	}
	return sales, nil
}

func (uc *saleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Details, err = uc.repo.FindDetails(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MonthlySalesForProduct covers the calendar month containing now, in the
// configured location. Annulled sales do not count.
func (uc *saleUseCase) MonthlySalesForProduct(ctx context.Context, productID string) (*model.MonthlySales, error) {
	from, to := MonthWindow(uc.now(), uc.loc)
	return uc.repo.MonthlyForProduct(ctx, productID, from, to)
}

// MonthWindow returns [first day of the month 00:00, first day of the next
// month 00:00) for t as seen in loc.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// CloseRegister closes every open sale, annulled ones included, and reports
// what the shift took in.
func (uc *saleUseCase) CloseRegister(ctx context.Context, userID string) (*dto.RegisterSummary, error) {
	summary := &dto.RegisterSummary{}
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := uc.withDetails(ctx, true)
		if err != nil {
			return err
		}

		ids := make([]string, len(open))
		for i, s := range open {
			ids[i] = s.ID
			if s.Annulled {
				summary.Annulled++
				continue
			}
			summary.Total = summary.Total.Add(s.Total())
		}

		summary.SalesClosed, err = uc.repo.CloseSales(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("register closed",
		zap.String("user_id", userID),
		zap.Int("sales_closed", summary.SalesClosed),
		zap.Int("annulled", summary.Annulled),
		zap.String("total", summary.Total.StringFixed(2)),
	)
	return summary, nil
}

// afterCommit runs the best-effort side effects of a committed sale change.
func (uc *saleUseCase) afterCommit(ctx context.Context, eventType string, s *model.Sale, details []model.SaleDetail) {
	if uc.cache != nil {
		if err := uc.cache.DeleteByPattern(ctx, product.ListCachePattern); err != nil {
			uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
		}
	}
	if uc.events != nil {
		if err := uc.events.Publish(ctx, eventType, s, details); err != nil {
			uc.logger.Error("failed to publish sale event",
				zap.String("event_type", eventType),
				zap.String("sale_id", s.ID),
				zap.Error(err),
			)
		}
	}
}
