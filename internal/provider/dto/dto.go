package dto

type ProviderFilters struct {
	Name     string // contains, case-insensitive
	Page     int
	PageSize int
}
