// Package actual is a client for the Actual Budget server's HTTP API. It
// exposes the three capabilities the importer needs: listing accounts,
// checking whether an external ID was already imported, and creating one
// transaction.
package actual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"actual-importer/internal/domain"
	"actual-importer/internal/logger"
)

const requestTimeout = 30 * time.Second

// Client talks to one budget file on an Actual server.
type Client struct {
	baseURL       string
	apiKey        string
	encryptionKey string
	budgetID      string
	http          *http.Client

	// importedIDs caches the external IDs of transactions already present
	// in the budget. Loaded once, on first duplicate check.
	importedIDs map[string]struct{}
}

// New creates a client for the given budget.
func New(baseURL, apiKey, encryptionKey, budgetID string) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		encryptionKey: encryptionKey,
		budgetID:      budgetID,
		http:          &http.Client{Timeout: requestTimeout},
	}
}

type accountsResponse struct {
	Data []domain.Account `json:"data"`
}

type transactionsResponse struct {
	Data []struct {
		ImportedID string `json:"imported_id"`
	} `json:"data"`
}

// transactionPayload is the wire shape the server expects for a create call.
type transactionPayload struct {
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
	PayeeName  string `json:"payee_name"`
	Notes      string `json:"notes,omitempty"`
	ImportedID string `json:"imported_id"`
	Cleared    bool   `json:"cleared"`
}

// ListAccounts fetches all accounts in the budget.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var resp accountsResponse
	path := fmt.Sprintf("/v1/budgets/%s/accounts", c.budgetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("actual: list accounts: %w", err)
	}
	return resp.Data, nil
}

// HasTransaction reports whether the budget already holds a transaction with
// this external ID. The full ID set is fetched on the first call and reused
// for the rest of the run; transactions created through this client are added
// to it, so a duplicate within one batch is also caught.
func (c *Client) HasTransaction(ctx context.Context, externalID string) (bool, error) {
	if c.importedIDs == nil {
		if err := c.loadImportedIDs(ctx); err != nil {
			return false, err
		}
	}
	_, ok := c.importedIDs[externalID]
	return ok, nil
}

// CreateTransaction creates one transaction in the budget. A rejection of a
// single create is a per-record failure; only transport and auth errors are
// fatal to the run.
func (c *Client) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	body := struct {
		Transaction transactionPayload `json:"transaction"`
	}{
		Transaction: transactionPayload{
			Date:       tx.Date.Format("2006-01-02"),
			Amount:     tx.Amount,
			PayeeName:  tx.Payee,
			Notes:      tx.Notes,
			ImportedID: tx.ExternalID,
			Cleared:    tx.Cleared,
		},
	}

	// Make sure the duplicate set exists so this create stays visible to
	// later checks within the run.
	if c.importedIDs == nil {
		if err := c.loadImportedIDs(ctx); err != nil {
			return err
		}
	}

	path := fmt.Sprintf("/v1/budgets/%s/accounts/%s/transactions", c.budgetID, tx.AccountID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("actual: create transaction %s: %w", tx.ExternalID, err)
	}

	c.importedIDs[tx.ExternalID] = struct{}{}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("external_id", tx.ExternalID).
		Str("account_id", tx.AccountID).
		Int64("amount", tx.Amount).
		Msg("Created transaction in Actual")

	return nil
}

func (c *Client) loadImportedIDs(ctx context.Context) error {
	var resp transactionsResponse
	path := fmt.Sprintf("/v1/budgets/%s/transactions", c.budgetID)
	if err := c.do(ctx, http.MethodGet, path+"?since_date=1970-01-01", nil, &resp); err != nil {
		return fmt.Errorf("actual: list transactions: %w", err)
	}

	c.importedIDs = make(map[string]struct{}, len(resp.Data))
	for _, tx := range resp.Data {
		if tx.ImportedID != "" {
			c.importedIDs[tx.ImportedID] = struct{}{}
		}
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Int("count", len(c.importedIDs)).
		Msg("Loaded imported transaction IDs from Actual")

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("x-api-key", c.apiKey)
	if c.encryptionKey != "" {
		req.Header.Set("budget-encryption-password", c.encryptionKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: Actual server returned %s", domain.ErrAuthentication, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("Actual server returned %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
