package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/search"
	"github.com/fekuna/omnipos-pos-service/internal/product"
	"github.com/fekuna/omnipos-pos-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName = "products"
	listTTL   = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"barcode": { "type": "keyword" },
			"name": { "type": "text" },
			"brand": { "type": "text" },
			"description": { "type": "text" },
			"created_at": { "type": "date" }
		}
	}
}`

// SalesReporter supplies the current month's sales of a product for the
// detail view.
type SalesReporter interface {
	MonthlySalesForProduct(ctx context.Context, productID string) (*model.MonthlySales, error)
}

type productUseCase struct {
	repo   product.Repository
	sales  SalesReporter
	cache  cache.Cache
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase accepts a nil cache and a nil search client; listings are
// then served from the database only.
func NewProductUseCase(repo product.Repository, sales SalesReporter, c cache.Cache, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		sales:  sales,
		cache:  c,
		es:     es,
		logger: log,
	}
}

type searchDocument struct {
	Barcode     string    `json:"barcode"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func validate(barcode, name string, pricePurchase, priceSale interface{ IsNegative() bool }) error {
	switch {
	case strings.TrimSpace(barcode) == "":
		return fmt.Errorf("%w: barcode is required", model.ErrValidation)
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	case pricePurchase.IsNegative() || priceSale.IsNegative():
		return fmt.Errorf("%w: prices must not be negative", model.ErrValidation)
	}
	return nil
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validate(input.Barcode, input.Name, input.PricePurchase, input.PriceSale); err != nil {
		return nil, err
	}
	if input.Stok < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", model.ErrValidation)
	}

	unique, err := uc.repo.IsBarcodeUnique(ctx, input.Barcode, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, fmt.Errorf("%w: barcode %q already exists", model.ErrConflict, input.Barcode)
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Barcode:       input.Barcode,
		Name:          input.Name,
		Description:   input.Description,
		Brand:         input.Brand,
		ProviderID:    optionalID(input.ProviderID),
		PricePurchase: input.PricePurchase,
		PriceSale:     input.PriceSale,
		Stok:          input.Stok,
		UserCreated:   input.UserID,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *productUseCase) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	return uc.repo.FindByBarcode(ctx, barcode)
}

func (uc *productUseCase) GetProductDetail(ctx context.Context, id string) (*dto.ProductDetail, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	monthly, err := uc.sales.MonthlySalesForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetail{Product: p, MonthlySales: monthly}, nil
}

type cachedList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if !filters.Simple() {
		return uc.repo.FindAll(ctx, filters)
	}

	cacheKey, err := listCacheKey(filters)
	if err == nil && uc.cache != nil {
		var hit cachedList
		found, err := uc.cache.GetJSON(ctx, cacheKey, &hit)
		if err != nil {
			uc.logger.Warn("product list cache read failed", zap.Error(err))
		}
		if found {
			return hit.Products, hit.Count, nil
		}
	}

	products, count, err := uc.searchIndexed(ctx, filters)
	if err != nil {
		if !errors.Is(err, errNotIndexed) {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
		}
		products, count, err = uc.repo.FindAll(ctx, filters)
		if err != nil {
			return nil, 0, err
		}
	}

	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, listTTL); err != nil {
			uc.logger.Warn("product list cache write failed", zap.Error(err))
		}
	}

	return products, count, nil
}

var errNotIndexed = errors.New("listing not served by the search index")

// searchIndexed ranks keyword matches by relevance in Elasticsearch and loads
// the matching rows from the database, so stock figures are never stale.
func (uc *productUseCase) searchIndexed(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if uc.es == nil || filters.Kword == "" || filters.Order != "" {
		return nil, 0, errNotIndexed
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     filters.Kword,
				"fields":    []string{"name^3", "barcode", "brand", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	products, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return products, res.Hits.Total.Value, nil
}

func listCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", strings.TrimSuffix(product.ListCachePattern, "*"), md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, product.ListCachePattern); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Error("failed to create product index", zap.Error(err))
		return
	}
	doc := searchDocument{
		Barcode:     p.Barcode,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validate(input.Barcode, input.Name, input.PricePurchase, input.PriceSale); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if p.Barcode != input.Barcode {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.Barcode, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, fmt.Errorf("%w: barcode %q already exists", model.ErrConflict, input.Barcode)
		}
	}

	p.Barcode = input.Barcode
	p.Name = input.Name
	p.Description = input.Description
	p.Brand = input.Brand
	p.ProviderID = optionalID(input.ProviderID)
	p.PricePurchase = input.PricePurchase
	p.PriceSale = input.PriceSale
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.repo.FindByID(ctx, id); err != nil {
		return err
	}

	sold, err := uc.repo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if sold {
		return fmt.Errorf("%w: product %s has sales and cannot be deleted", model.ErrConflict, id)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateListCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}

	return nil
}
