package actual

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actual-importer/internal/domain"
)

func testTransaction(externalID string) *domain.Transaction {
	return &domain.Transaction{
		ExternalID: externalID,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:     -5000,
		Payee:      "Grocer",
		Notes:      "weekly shop",
		AccountID:  "uuid-1",
		Cleared:    true,
	}
}

func TestClient_ListAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/budgets/My-Budget/accounts", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "enc-key", r.Header.Get("budget-encryption-password"))
		_, _ = w.Write([]byte(`{"data":[{"id":"uuid-1","name":"Checking"}]}`))
	}))
	defer srv.Close()

	accounts, err := New(srv.URL, "secret", "enc-key", "My-Budget").ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Checking", accounts[0].Name)
}

func TestClient_HasTransaction(t *testing.T) {
	var listCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/budgets/My-Budget/transactions", r.URL.Path)
		listCalls++
		_, _ = w.Write([]byte(`{"data":[{"imported_id":"tx-1"},{"imported_id":"tx-2"},{"imported_id":""}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "", "My-Budget")
	ctx := context.Background()

	dup, err := c.HasTransaction(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = c.HasTransaction(ctx, "tx-9")
	require.NoError(t, err)
	assert.False(t, dup)

	assert.Equal(t, 1, listCalls, "imported IDs are fetched once per run")
}

func TestClient_CreateTransaction(t *testing.T) {
	var gotPath string
	var gotBody map[string]map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":[]}`))
		case http.MethodPost:
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "", "My-Budget")
	ctx := context.Background()

	require.NoError(t, c.CreateTransaction(ctx, testTransaction("tx-1")))

	assert.Equal(t, "/v1/budgets/My-Budget/accounts/uuid-1/transactions", gotPath)
	tx := gotBody["transaction"]
	assert.Equal(t, "2024-01-15", tx["date"])
	assert.Equal(t, float64(-5000), tx["amount"])
	assert.Equal(t, "Grocer", tx["payee_name"])
	assert.Equal(t, "tx-1", tx["imported_id"])
	assert.Equal(t, true, tx["cleared"])

	// A created transaction is a duplicate within the same run.
	dup, err := c.HasTransaction(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestClient_ErrorClasses(t *testing.T) {
	t.Run("unauthorized maps to ErrAuthentication", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := New(srv.URL, "wrong", "", "My-Budget")
		_, err := c.ListAccounts(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("unreachable server maps to ErrConnection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		c := New(srv.URL, "secret", "", "My-Budget")
		_, err := c.ListAccounts(context.Background())
		assert.ErrorIs(t, err, domain.ErrConnection)
	})

	t.Run("rejected create is not a fatal class", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "secret", "", "My-Budget")
		err := c.CreateTransaction(context.Background(), testTransaction("tx-1"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrConnection)
		assert.NotErrorIs(t, err, domain.ErrAuthentication)
	})
}
