package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const productCreateMutation = `
mutation productCreate($product: ProductCreateInput!) {
  productCreate(product: $product) {
    product {
      id
      legacyResourceId
    }
    userErrors {
      field
      message
    }
  }
}
`

// ProductInput carries the fields StitchSync sets when creating an imported
// product.
type ProductInput struct {
	Title  string
	Vendor string
	Tags   []string
}

type productCreateData struct {
	ProductCreate struct {
		Product struct {
			ID               string `json:"id"`
			LegacyResourceID string `json:"legacyResourceId"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productCreate"`
}

// CreateProduct creates a product and returns its numeric id.
func (c *Client) CreateProduct(ctx context.Context, shop, accessToken string, input ProductInput) (int64, error) {
	resp, err := c.Execute(ctx, shop, accessToken, productCreateMutation, map[string]any{
		"product": map[string]any{
			"title":  input.Title,
			"vendor": input.Vendor,
			"tags":   input.Tags,
		},
	})
	if err != nil {
		return 0, err
	}

	var data productCreateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("unmarshal product create data: %w", err)
	}
	if errs := data.ProductCreate.UserErrors; len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, userErr := range errs {
			messages[i] = userErr.Message
		}
		return 0, fmt.Errorf("product create rejected: %s", strings.Join(messages, "; "))
	}

	id, err := strconv.ParseInt(data.ProductCreate.Product.LegacyResourceID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse product id %q: %w", data.ProductCreate.Product.LegacyResourceID, err)
	}
	return id, nil
}
