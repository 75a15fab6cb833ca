package catalog

import (
	"github.com/shopspring/decimal"
)

// MapProductInput links an existing storefront product to a supplier style.
type MapProductInput struct {
	ExternalProductID int64            `json:"external_product_id" validate:"required"`
	SupplierStyleID   string           `json:"supplier_style_id" validate:"required"`
	Title             string           `json:"title"`
	BasePrice         *decimal.Decimal `json:"base_price"`
}

// ImportInput names the supplier styles to import.
type ImportInput struct {
	StyleIDs []string `json:"style_ids" validate:"required,min=1"`
}

// ImportResult summarizes one import run. Failures are isolated per style.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
