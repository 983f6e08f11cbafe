package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountMapping(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{"empty string means pass-through", "", map[string]string{}, false},
		{"single pair", "acct-1:uuid-1", map[string]string{"acct-1": "uuid-1"}, false},
		{
			"multiple pairs with spaces",
			" acct-1 : uuid-1 , acct-2:uuid-2 ",
			map[string]string{"acct-1": "uuid-1", "acct-2": "uuid-2"},
			false,
		},
		{"trailing comma tolerated", "acct-1:uuid-1,", map[string]string{"acct-1": "uuid-1"}, false},
		{"pair without colon", "acct-1", nil, true},
		{"pair with empty destination", "acct-1:", nil, true},
		{"duplicate source key", "acct-1:a,acct-1:b", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccountMapping(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.FinanceAPIURL)
	assert.Equal(t, "http://localhost:5006", cfg.ActualServerURL)
	assert.Equal(t, "ID", cfg.Fields.ID)
	assert.Equal(t, "Date", cfg.Fields.Date)
	assert.Equal(t, []string{"Vendor", "Merchant"}, cfg.Fields.Payee)
	assert.Contains(t, cfg.Signs.DebitTypes, "debit")
	assert.Contains(t, cfg.Signs.DebitTypes, "expense")
	assert.Contains(t, cfg.Signs.CreditTypes, "credit")
	assert.Contains(t, cfg.Signs.CreditTypes, "income")
	assert.Equal(t, []string{"SETTLED"}, cfg.ClearedStatuses)
	assert.Empty(t, cfg.AccountMapping)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FINANCE_API_URL", "https://finance.example.com/")
	t.Setenv("ACCOUNT_MAPPING", "acct-1:uuid-1,acct-2:uuid-2")
	t.Setenv("FINANCE_FIELD_PAYEE", "Payee,Description")
	t.Setenv("FINANCE_DEBIT_TYPES", "outflow")
	t.Setenv("FINANCE_DATE_FORMATS", "01/02/2006")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://finance.example.com", cfg.FinanceAPIURL, "trailing slash trimmed")
	assert.Equal(t, map[string]string{"acct-1": "uuid-1", "acct-2": "uuid-2"}, cfg.AccountMapping)
	assert.Equal(t, []string{"Payee", "Description"}, cfg.Fields.Payee)
	assert.Equal(t, []string{"outflow"}, cfg.Signs.DebitTypes)
	assert.Equal(t, []string{"01/02/2006"}, cfg.DateFormats)
}

func TestLoad_InvalidMapping(t *testing.T) {
	t.Setenv("ACCOUNT_MAPPING", "acct-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		FinanceAPIURL:   "http://localhost:5000",
		ActualServerURL: "http://localhost:5006",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACTUAL_PASSWORD is required")
	assert.Contains(t, err.Error(), "ACTUAL_BUDGET_ID is required")
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{
		FinanceAPIURL:   "http://localhost:5000",
		ActualServerURL: "http://localhost:5006",
		ActualPassword:  "secret",
		ActualBudgetID:  "My-Budget",
	}

	assert.NoError(t, cfg.Validate())
}
