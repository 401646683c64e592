package dto

import (
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type ProductFilters struct {
	Kword     string // name or barcode contains
	Provider  string // provider name contains
	Brand     string
	DateStart *time.Time
	DateEnd   *time.Time // inclusive day
	Order     string     // name, stok, num_sales, date
	Page      int
	PageSize  int
}

// Simple reports whether only the keyword/order search is requested, which is
// the listing served from the search index and the cache.
func (f *ProductFilters) Simple() bool {
	return f.Provider == "" && f.Brand == "" && f.DateStart == nil && f.DateEnd == nil
}

type ProductDetail struct {
	Product      *model.Product      `json:"product"`
	MonthlySales *model.MonthlySales `json:"monthly_sales"`
}
