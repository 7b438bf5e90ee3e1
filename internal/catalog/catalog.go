// Package catalog is a small client for a dummyjson-style product catalog.
// Its methods have the shape of easyapi operations.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	easyapi "github.com/probablyarth/easyapi-go"
	"github.com/probablyarth/easyapi-go/internal/logging"
)

// Category is a product category.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Product is a catalog item.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// ProductPage is the envelope returned by the products endpoint.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s returned %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client fetches categories and products.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Categories lists every category.
func (c *Client) Categories(ctx context.Context, _ easyapi.NoArg) ([]Category, error) {
	var out []Category
	if err := c.get(ctx, "/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products lists the products of one category.
func (c *Client) Products(ctx context.Context, category string) ([]Product, error) {
	var page ProductPage
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), &page); err != nil {
		return nil, err
	}
	return page.Products, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logging.FromContext(ctx).Debug().Str("url", u).Msg("catalog request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: u}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
