package cron

import (
	"context"
	"fmt"
)

// StaticTokenSource serves a single Admin API token regardless of shop. It
// fits single-store and custom-app installs where one token covers the
// tenant; a token store can replace it without touching the jobs.
type StaticTokenSource string

func (s StaticTokenSource) AccessToken(_ context.Context, shop string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("no admin token configured for shop %s", shop)
	}
	return string(s), nil
}
