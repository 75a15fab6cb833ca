package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stitchsync/stitchsync-backend/pkg/config"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// Client talks to the Shopify GraphQL Admin API. It is shop-agnostic; the
// shop domain and access token are supplied per call because the app serves
// many shops.
type Client struct {
	apiVersion string
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient builds a GraphQL Admin client.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: timeout},
		logg:       logg,
	}
}

// GraphQLRequest is the body posted to the Admin API.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse is the raw Admin API response.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is a top-level query error.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// UserError is Shopify's structured per-mutation failure.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func normalizeShopDomain(shop string) string {
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.TrimSuffix(shop, "/")
}

// Execute posts a GraphQL query/mutation for the given shop.
func (c *Client) Execute(ctx context.Context, shop, accessToken, query string, variables map[string]any) (*GraphQLResponse, error) {
	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", normalizeShopDomain(shop), c.apiVersion)

	payload, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute graphql request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read graphql response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify api status %d: %s", resp.StatusCode, string(body))
	}

	var decoded GraphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal graphql response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, len(decoded.Errors))
		for i, gqlErr := range decoded.Errors {
			messages[i] = gqlErr.Message
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	return &decoded, nil
}
