package intake

import (
	"strings"

	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// WebhookLineItem is one line of a verified order-created payload.
type WebhookLineItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Vendor    string `json:"vendor"`
}

// WebhookOrder is the verified order-created payload the intake consumes.
// Tags arrive as a comma-separated string, total_price as a decimal string.
type WebhookOrder struct {
	ID          int64             `json:"id"`
	OrderNumber int64             `json:"order_number"`
	LineItems   []WebhookLineItem `json:"line_items"`
	Tags        string            `json:"tags"`
	TotalPrice  string            `json:"total_price"`
}

// TagList splits and lowercases the order's tags.
func (o WebhookOrder) TagList() []string {
	if strings.TrimSpace(o.Tags) == "" {
		return nil
	}
	parts := strings.Split(o.Tags, ",")
	var tags []string
	for _, part := range parts {
		if tag := strings.ToLower(strings.TrimSpace(part)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Routing is the automation decision for a classified order.
type Routing string

const (
	RoutingPendingApproval Routing = "pending_approval"
	RoutingAutoSubmit      Routing = "auto_submit"
)

// Result reports what intake did with one webhook delivery.
type Result struct {
	Relevant bool                 `json:"relevant"`
	Created  bool                 `json:"created"`
	JobID    *uuid.UUID           `json:"job_id,omitempty"`
	Routing  Routing              `json:"routing,omitempty"`
	Status   enums.OrderJobStatus `json:"status,omitempty"`
}
