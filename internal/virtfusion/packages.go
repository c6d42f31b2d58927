package virtfusion

import (
	"context"
	"net/http"
)

// Package is an offering defined on the panel.
type Package struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ListPackages fetches the panel's package catalog, disabled entries included.
func (c *Client) ListPackages(ctx context.Context) ([]Package, error) {
	resp, err := c.Call(ctx, http.MethodGet, "/packages", nil)
	if err != nil {
		return nil, err
	}

	var packages []Package
	if err := resp.DecodeData(&packages); err != nil {
		return nil, err
	}
	return packages, nil
}
