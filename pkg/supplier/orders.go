package supplier

import (
	"context"
	"fmt"
	"time"
)

// OrderLine is one sku/quantity pair submitted to the supplier.
type OrderLine struct {
	SKU string `json:"identifier"`
	Qty int    `json:"qty"`
}

// OrderInput is the payload for supplier order submission.
type OrderInput struct {
	ShippingMethod string      `json:"shippingMethod"`
	PONumber       string      `json:"poNumber"`
	EmailConfirmTo string      `json:"emailConfirmation,omitempty"`
	TestOrder      bool        `json:"testOrder"`
	Lines          []OrderLine `json:"lines"`
}

// OrderResult is the supplier's acknowledgment of a submitted order.
type OrderResult struct {
	OrderNumber string `json:"orderNumber"`
	OrderStatus string `json:"orderStatus"`
}

// OrderStatus reports where a supplier order stands, including shipment info
// once the warehouse has handed the parcel to a carrier.
type OrderStatus struct {
	OrderNumber    string     `json:"orderNumber"`
	OrderStatus    string     `json:"orderStatus"`
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"trackingNumber"`
	ShipDate       *time.Time `json:"shipDate"`
}

// SubmitOrder relays an order to the supplier.
func (c *Client) SubmitOrder(ctx context.Context, input OrderInput) (*OrderResult, error) {
	var results []OrderResult
	if err := c.do(ctx, "POST", "/orders/", input, &results); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("submit order: empty response")
	}
	return &results[0], nil
}

// GetOrderStatus fetches the current status of a supplier order.
func (c *Client) GetOrderStatus(ctx context.Context, orderNumber string) (*OrderStatus, error) {
	var statuses []OrderStatus
	if err := c.do(ctx, "GET", "/orders/"+orderNumber, nil, &statuses); err != nil {
		return nil, fmt.Errorf("order status %s: %w", orderNumber, err)
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("order status %s: not found", orderNumber)
	}
	return &statuses[0], nil
}
