// Package catalog is a read-only accessor over the external product
// catalog. The catalog is treated as an oracle: every operation degrades
// to an empty result on transport or decode failure, so callers cannot
// tell "no products" apart from "catalog unreachable". That ambiguity is
// deliberate and must not be removed here.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Catalog) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// getJSON is the error-carrying layer beneath the degrade-to-empty API.
// The reason a fetch failed exists here even though the exported methods
// only ever log it.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building catalog request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}

func (c *Client) ListProducts(ctx context.Context) []models.Product {
	var products []models.Product

	if err := c.getJSON(ctx, "/products", &products); err != nil {
		slog.Warn("Catalog product list unavailable", slog.String("error", err.Error()))

		return []models.Product{}
	}

	return products
}

// GetProduct returns nil both when the product does not exist and when the
// catalog could not be reached.
func (c *Client) GetProduct(ctx context.Context, id int) *models.Product {
	var product models.Product

	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		slog.Warn("Catalog product lookup failed", slog.Int("productId", id), slog.String("error", err.Error()))

		return nil
	}

	// The upstream catalog answers some unknown ids with an empty body
	// rather than a 404.
	if product.ID == 0 {
		return nil
	}

	return &product
}

func (c *Client) ListByCategory(ctx context.Context, category string) []models.Product {
	var products []models.Product

	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, path, &products); err != nil {
		slog.Warn("Catalog category list unavailable", slog.String("category", category), slog.String("error", err.Error()))

		return []models.Product{}
	}

	return products
}

func (c *Client) ListCategories(ctx context.Context) []string {
	var categories []string

	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		slog.Warn("Catalog categories unavailable", slog.String("error", err.Error()))

		return []string{}
	}

	return categories
}

// SearchProducts filters the full product list client-side; the catalog
// has no search endpoint. A product matches when the lowercased query is a
// substring of its lowercased title, description, or category. An empty
// query matches everything.
func (c *Client) SearchProducts(ctx context.Context, query string) []models.Product {
	all := c.ListProducts(ctx)

	q := strings.ToLower(query)
	matches := make([]models.Product, 0, len(all))

	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matches = append(matches, p)
		}
	}

	return matches
}
