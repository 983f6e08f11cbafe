package domain

import (
	"time"
)

// RawTransaction is one record as returned by the finance API, before any
// normalization. There is no fixed schema; key names vary by deployment, so
// the record stays a generic map until the normalizer picks it apart.
type RawTransaction map[string]interface{}

// Transaction is one normalized transaction ready for the budget server.
// Amount is in minor currency units with the sign convention
// "negative = money leaving the account, positive = money entering",
// regardless of how the source labels debits and credits.
type Transaction struct {
	ExternalID string    // source-system ID, used by the budget server for deduplication
	Date       time.Time // calendar date only, UTC midnight
	Amount     int64     // minor units, signed
	Payee      string    // "Unknown" when the source has no payee
	Notes      string
	AccountID  string // budget-server account ID after mapping
	Cleared    bool   // source status was a settled status
}

// Account is an account as listed by either system.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
