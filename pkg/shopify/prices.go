package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// productVariantsBulkUpdateMutation rewrites variant prices on a product.
const productVariantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
    }
    userErrors {
      field
      message
    }
  }
}
`

// VariantPriceInput pairs a variant GID with its new price.
type VariantPriceInput struct {
	VariantID  string
	PriceCents int64
}

type variantsBulkUpdateData struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"productVariants"`
		UserErrors []UserError `json:"userErrors"`
	} `json:"productVariantsBulkUpdate"`
}

// UpdateVariantPrices rewrites the given variant prices on one product. Cents
// are converted to the decimal string Shopify expects at this boundary only.
func (c *Client) UpdateVariantPrices(ctx context.Context, shop, accessToken, productGID string, inputs []VariantPriceInput) error {
	if len(inputs) == 0 {
		return nil
	}

	variants := make([]map[string]any, len(inputs))
	for i, input := range inputs {
		price := decimal.NewFromInt(input.PriceCents).Div(decimal.NewFromInt(100))
		variants[i] = map[string]any{
			"id":    input.VariantID,
			"price": price.StringFixed(2),
		}
	}

	resp, err := c.Execute(ctx, shop, accessToken, productVariantsBulkUpdateMutation, map[string]any{
		"productId": productGID,
		"variants":  variants,
	})
	if err != nil {
		return err
	}

	var data variantsBulkUpdateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return fmt.Errorf("unmarshal variant update data: %w", err)
	}
	if errs := data.ProductVariantsBulkUpdate.UserErrors; len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, userErr := range errs {
			messages[i] = userErr.Message
		}
		return fmt.Errorf("variant price update rejected: %s", strings.Join(messages, "; "))
	}
	return nil
}
