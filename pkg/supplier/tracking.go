package supplier

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// TrackingInfo is the normalized carrier signal for one shipment.
type TrackingInfo struct {
	Status            string     `json:"status"`
	LastLocation      string     `json:"lastLocation"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// GetTrackingStatus asks the supplier's tracking endpoint where a parcel is.
func (c *Client) GetTrackingStatus(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	path := "/tracking/?" + url.Values{
		"carrier":        {carrier},
		"trackingNumber": {trackingNumber},
	}.Encode()
	var info TrackingInfo
	if err := c.do(ctx, "GET", path, nil, &info); err != nil {
		return nil, fmt.Errorf("tracking %s/%s: %w", carrier, trackingNumber, err)
	}
	return &info, nil
}
