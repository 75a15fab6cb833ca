package supplier

import (
	"context"
	"fmt"
	"net/url"
)

// Style is one wholesale style from the supplier catalog.
type Style struct {
	StyleID     string `json:"styleID"`
	PartNumber  string `json:"partNumber"`
	BrandName   string `json:"brandName"`
	StyleName   string `json:"styleName"`
	Title       string `json:"title"`
	BaseCategory string `json:"baseCategory"`
}

// Product is one sellable sku under a style (color/size combination).
type Product struct {
	SKU        string  `json:"sku"`
	StyleID    string  `json:"styleID"`
	ColorName  string  `json:"colorName"`
	SizeName   string  `json:"sizeName"`
	PiecePrice float64 `json:"piecePrice"`
	Qty        int     `json:"qty"`
}

// ListStyles fetches the style catalog, optionally filtered by brand.
func (c *Client) ListStyles(ctx context.Context, brand string) ([]Style, error) {
	path := "/styles/"
	if brand != "" {
		path += "?" + url.Values{"search": {brand}}.Encode()
	}
	var styles []Style
	if err := c.do(ctx, "GET", path, nil, &styles); err != nil {
		return nil, fmt.Errorf("list styles: %w", err)
	}
	return styles, nil
}

// GetStyle fetches a single style by its supplier id.
func (c *Client) GetStyle(ctx context.Context, styleID string) (*Style, error) {
	var styles []Style
	if err := c.do(ctx, "GET", "/styles/"+url.PathEscape(styleID), nil, &styles); err != nil {
		return nil, fmt.Errorf("get style %s: %w", styleID, err)
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("style %s not found", styleID)
	}
	return &styles[0], nil
}

// ListProducts fetches the skus for one style, including live inventory.
func (c *Client) ListProducts(ctx context.Context, styleID string) ([]Product, error) {
	var products []Product
	path := "/products/?" + url.Values{"style": {styleID}}.Encode()
	if err := c.do(ctx, "GET", path, nil, &products); err != nil {
		return nil, fmt.Errorf("list products for style %s: %w", styleID, err)
	}
	return products, nil
}
