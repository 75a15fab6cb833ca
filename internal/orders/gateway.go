package orders

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// styleResolver maps a storefront product id to its supplier style.
type styleResolver interface {
	FindByExternalID(ctx context.Context, shop string, externalProductID int64) (*models.ProductMap, error)
}

type orderSubmitter interface {
	SubmitOrder(ctx context.Context, input supplier.OrderInput) (*supplier.OrderResult, error)
}

type supplierGateway struct {
	client  orderSubmitter
	catalog styleResolver
}

// NewSupplierGateway adapts the supplier client into the order submission
// collaborator: each retained line is resolved to its supplier style before
// relay.
func NewSupplierGateway(client orderSubmitter, catalog styleResolver) (SupplierGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("supplier client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("style resolver required")
	}
	return &supplierGateway{client: client, catalog: catalog}, nil
}

func (g *supplierGateway) SubmitOrder(ctx context.Context, job *models.OrderJob, shippingMethod string) (string, error) {
	if len(job.Lines) == 0 {
		return "", fmt.Errorf("order job has no supplier lines")
	}

	lines := make([]supplier.OrderLine, 0, len(job.Lines))
	for _, line := range job.Lines {
		mapping, err := g.catalog.FindByExternalID(ctx, job.Shop, line.ExternalProductID)
		if err != nil {
			// A line that never matched the product map is not supplier
			// sourced; it is simply left out of the relay.
			continue
		}
		lines = append(lines, supplier.OrderLine{
			SKU: mapping.SupplierStyleID,
			Qty: line.Quantity,
		})
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("no mapped lines to submit")
	}

	result, err := g.client.SubmitOrder(ctx, supplier.OrderInput{
		ShippingMethod: shippingMethod,
		PONumber:       strconv.FormatInt(job.OrderNumber, 10),
		Lines:          lines,
	})
	if err != nil {
		return "", err
	}
	return result.OrderNumber, nil
}
