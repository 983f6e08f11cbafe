// Package financeapi is a thin client for the finance-tracking service the
// importer reads from. It only covers the two endpoints the import pipeline
// needs: listing accounts and listing transactions for a date window.
package financeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"actual-importer/internal/domain"
	"actual-importer/internal/logger"
)

const requestTimeout = 30 * time.Second

// Client talks to the finance API over HTTP. Basic auth is applied when a
// username is configured.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// New creates a finance API client for the given base URL.
func New(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// ListAccounts fetches all accounts from the finance API.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.get(ctx, "/api/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("financeapi: list accounts: %w", err)
	}
	return accounts, nil
}

// ListTransactions fetches the raw transactions for the inclusive date
// window. The order is whatever the source returns.
func (c *Client) ListTransactions(ctx context.Context, start, end time.Time) ([]domain.RawTransaction, error) {
	params := url.Values{}
	params.Set("startDate", start.Format("2006-01-02"))
	params.Set("endDate", end.Format("2006-01-02"))

	var raw []domain.RawTransaction
	if err := c.get(ctx, "/api/transactions", params, &raw); err != nil {
		return nil, fmt.Errorf("financeapi: list transactions: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Int("count", len(raw)).
		Str("start_date", params.Get("startDate")).
		Str("end_date", params.Get("endDate")).
		Msg("Retrieved transactions from finance API")

	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: finance API returned %s", domain.ErrAuthentication, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("finance API returned %s", resp.Status)
	}

	// UseNumber keeps amounts exact until the normalizer converts them.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
