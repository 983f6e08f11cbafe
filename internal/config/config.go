package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FieldMapping names the raw keys the finance API uses for each canonical
// field. Key names vary by deployment, so every one of them can be overridden
// through the environment; the defaults match the reference deployment.
type FieldMapping struct {
	ID      string
	Date    string
	Amount  string
	Payee   []string // tried in order, first non-empty value wins
	Notes   string
	Account string
	Status  string
}

// SignRules configures amount-sign normalization. The discriminator sets are
// deployment-specific: some sources label records debit/credit, others
// expense/income. Values are matched case-insensitively.
type SignRules struct {
	Field       string
	DebitTypes  []string // force amount negative
	CreditTypes []string // force amount positive
}

// Config holds everything the importer reads from the environment.
type Config struct {
	FinanceAPIURL      string
	FinanceAPIUsername string
	FinanceAPIPassword string

	ActualServerURL     string
	ActualPassword      string
	ActualBudgetID      string
	ActualEncryptionKey string

	AccountMapping map[string]string

	Fields          FieldMapping
	Signs           SignRules
	DateFormats     []string // extra Go time layouts tried after the ISO ones
	ClearedStatuses []string
}

// Load reads configuration from environment variables. Missing required
// values are reported by Validate, not here, so the accounts helper can run
// against a partial configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("finance_api_url", "http://localhost:5000")
	v.SetDefault("actual_server_url", "http://localhost:5006")

	v.SetDefault("finance_field_id", "ID")
	v.SetDefault("finance_field_date", "Date")
	v.SetDefault("finance_field_amount", "Amount")
	v.SetDefault("finance_field_payee", "Vendor,Merchant")
	v.SetDefault("finance_field_notes", "Note")
	v.SetDefault("finance_field_account", "AccountID")
	v.SetDefault("finance_field_type", "Type")
	v.SetDefault("finance_field_status", "Status")

	v.SetDefault("finance_debit_types", "debit,expense,withdrawal")
	v.SetDefault("finance_credit_types", "credit,income,deposit")
	v.SetDefault("finance_cleared_statuses", "SETTLED")

	mapping, err := ParseAccountMapping(v.GetString("account_mapping"))
	if err != nil {
		return nil, fmt.Errorf("config: ACCOUNT_MAPPING: %w", err)
	}

	cfg := &Config{
		FinanceAPIURL:      strings.TrimRight(v.GetString("finance_api_url"), "/"),
		FinanceAPIUsername: v.GetString("finance_api_username"),
		FinanceAPIPassword: v.GetString("finance_api_password"),

		ActualServerURL:     strings.TrimRight(v.GetString("actual_server_url"), "/"),
		ActualPassword:      v.GetString("actual_password"),
		ActualBudgetID:      v.GetString("actual_budget_id"),
		ActualEncryptionKey: v.GetString("actual_encryption_key"),

		AccountMapping: mapping,

		Fields: FieldMapping{
			ID:      v.GetString("finance_field_id"),
			Date:    v.GetString("finance_field_date"),
			Amount:  v.GetString("finance_field_amount"),
			Payee:   splitList(v.GetString("finance_field_payee")),
			Notes:   v.GetString("finance_field_notes"),
			Account: v.GetString("finance_field_account"),
			Status:  v.GetString("finance_field_status"),
		},
		Signs: SignRules{
			Field:       v.GetString("finance_field_type"),
			DebitTypes:  splitList(v.GetString("finance_debit_types")),
			CreditTypes: splitList(v.GetString("finance_credit_types")),
		},
		DateFormats:     splitList(v.GetString("finance_date_formats")),
		ClearedStatuses: splitList(v.GetString("finance_cleared_statuses")),
	}

	return cfg, nil
}

// Validate checks that everything an import run needs is present. All
// problems are reported at once.
func (c *Config) Validate() error {
	var errs []string

	if c.FinanceAPIURL == "" {
		errs = append(errs, "FINANCE_API_URL is required")
	}
	if c.ActualServerURL == "" {
		errs = append(errs, "ACTUAL_SERVER_URL is required")
	}
	if c.ActualPassword == "" {
		errs = append(errs, "ACTUAL_PASSWORD is required")
	}
	if c.ActualBudgetID == "" {
		errs = append(errs, "ACTUAL_BUDGET_ID is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, ", "))
	}
	return nil
}

// ParseAccountMapping parses the ACCOUNT_MAPPING environment variable,
// serialized as comma-separated "source:destination" pairs. An empty string
// yields an empty mapping, which means "pass account IDs through unchanged".
func ParseAccountMapping(s string) (map[string]string, error) {
	mapping := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return mapping, nil
	}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		src, dst, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, want source:destination", pair)
		}
		src = strings.TrimSpace(src)
		dst = strings.TrimSpace(dst)
		if src == "" || dst == "" {
			return nil, fmt.Errorf("invalid pair %q, want source:destination", pair)
		}
		if _, dup := mapping[src]; dup {
			return nil, fmt.Errorf("duplicate source account %q", src)
		}
		mapping[src] = dst
	}
	return mapping, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
