package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

// deliveryProfilesQuery lists the shop's delivery profiles and their named
// shipping rates, used to populate the shipping-method picker.
const deliveryProfilesQuery = `
query deliveryProfiles($first: Int!) {
  deliveryProfiles(first: $first) {
    nodes {
      id
      name
      profileLocationGroups {
        locationGroupZones(first: 10) {
          nodes {
            methodDefinitions(first: 10) {
              nodes {
                name
                active
              }
            }
          }
        }
      }
    }
  }
}
`

// ShippingMethod is a named, active rate definition from a delivery profile.
type ShippingMethod struct {
	ProfileName string `json:"profile_name"`
	Name        string `json:"name"`
}

type deliveryProfilesData struct {
	DeliveryProfiles struct {
		Nodes []struct {
			ID                    string `json:"id"`
			Name                  string `json:"name"`
			ProfileLocationGroups []struct {
				LocationGroupZones struct {
					Nodes []struct {
						MethodDefinitions struct {
							Nodes []struct {
								Name   string `json:"name"`
								Active bool   `json:"active"`
							} `json:"nodes"`
						} `json:"methodDefinitions"`
					} `json:"nodes"`
				} `json:"locationGroupZones"`
			} `json:"profileLocationGroups"`
		} `json:"nodes"`
	} `json:"deliveryProfiles"`
}

// ListShippingMethods returns the shop's active shipping rate names.
func (c *Client) ListShippingMethods(ctx context.Context, shop, accessToken string) ([]ShippingMethod, error) {
	resp, err := c.Execute(ctx, shop, accessToken, deliveryProfilesQuery, map[string]any{"first": 10})
	if err != nil {
		return nil, err
	}

	var data deliveryProfilesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("unmarshal delivery profiles: %w", err)
	}

	var methods []ShippingMethod
	for _, profile := range data.DeliveryProfiles.Nodes {
		for _, group := range profile.ProfileLocationGroups {
			for _, zone := range group.LocationGroupZones.Nodes {
				for _, def := range zone.MethodDefinitions.Nodes {
					if !def.Active {
						continue
					}
					methods = append(methods, ShippingMethod{
						ProfileName: profile.Name,
						Name:        def.Name,
					})
				}
			}
		}
	}
	return methods, nil
}
