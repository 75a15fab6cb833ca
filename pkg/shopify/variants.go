package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const productVariantsQuery = `
query productVariants($id: ID!) {
  product(id: $id) {
    variants(first: 100) {
      nodes {
        id
        price
      }
    }
  }
}
`

// Variant is one sellable variant of a product.
type Variant struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

type productVariantsData struct {
	Product struct {
		Variants struct {
			Nodes []Variant `json:"nodes"`
		} `json:"variants"`
	} `json:"product"`
}

// ListVariants fetches the variants of one product.
func (c *Client) ListVariants(ctx context.Context, shop, accessToken, productGID string) ([]Variant, error) {
	resp, err := c.Execute(ctx, shop, accessToken, productVariantsQuery, map[string]any{
		"id": productGID,
	})
	if err != nil {
		return nil, err
	}

	var data productVariantsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("unmarshal product variants: %w", err)
	}
	return data.Product.Variants.Nodes, nil
}

// ProductGID converts a numeric product id into the GraphQL global id Shopify
// mutations expect.
func ProductGID(productID int64) string {
	return fmt.Sprintf("gid://shopify/Product/%d", productID)
}
