package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"actual-importer/internal/config"
	"actual-importer/internal/domain"
)

// UnknownPayee is the sentinel used when the source record carries no payee.
const UnknownPayee = "Unknown"

// isoLayouts are always accepted; deployment-specific layouts from the
// configuration are tried after them.
var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// externalIDNamespace is the UUIDv5 namespace for synthesized external IDs.
// Fixed so the same record always produces the same ID across runs, which is
// what keeps re-imports idempotent for sources without record IDs.
var externalIDNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("actual-importer"))

// Normalizer converts raw finance API records into canonical transactions
// according to the deployment's field mapping and sign rules.
type Normalizer struct {
	fields  config.FieldMapping
	signs   config.SignRules
	layouts []string
	cleared []string
}

// NewNormalizer builds a normalizer from the loaded configuration.
func NewNormalizer(cfg *config.Config) *Normalizer {
	return &Normalizer{
		fields:  cfg.Fields,
		signs:   cfg.Signs,
		layouts: append(append([]string{}, isoLayouts...), cfg.DateFormats...),
		cleared: cfg.ClearedStatuses,
	}
}

// Normalize converts one raw record. A missing or unparsable date or amount
// is a NormalizationError; optional fields fall back to sentinels instead of
// failing.
func (n *Normalizer) Normalize(raw domain.RawTransaction) (*domain.Transaction, error) {
	date, err := n.parseDate(raw)
	if err != nil {
		return nil, err
	}

	amount, err := n.parseAmount(raw)
	if err != nil {
		return nil, err
	}
	amount = n.applySign(raw, amount)

	accountID := stringValue(raw[n.fields.Account])
	payee := n.payee(raw)
	notes := stringValue(raw[n.fields.Notes])

	tx := &domain.Transaction{
		Date:      date,
		Amount:    amount,
		Payee:     payee,
		Notes:     notes,
		AccountID: accountID,
		Cleared:   n.isCleared(raw),
	}
	tx.ExternalID = n.externalID(raw, tx)

	return tx, nil
}

func (n *Normalizer) parseDate(raw domain.RawTransaction) (time.Time, error) {
	s := stringValue(raw[n.fields.Date])
	if s == "" {
		return time.Time{}, &NormalizationError{Field: n.fields.Date, Reason: "missing required date"}
	}

	for _, layout := range n.layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Keep only the date portion of datetimes.
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &NormalizationError{Field: n.fields.Date, Reason: fmt.Sprintf("unparsable date %q", s)}
}

func (n *Normalizer) parseAmount(raw domain.RawTransaction) (int64, error) {
	v, ok := raw[n.fields.Amount]
	if !ok || v == nil {
		return 0, &NormalizationError{Field: n.fields.Amount, Reason: "missing required amount"}
	}

	var d decimal.Decimal
	var err error
	switch val := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(val.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(val))
	case float64:
		d = decimal.NewFromFloat(val)
	case int:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, &NormalizationError{Field: n.fields.Amount, Reason: fmt.Sprintf("unparsable amount %v: %v", v, err)}
	}

	// Major units -> minor units, half-up at two decimal places.
	return d.Shift(2).Round(0).IntPart(), nil
}

// applySign forces the amount sign when the type discriminator is present
// and recognized. An absent or unknown discriminator leaves the source sign
// untouched.
func (n *Normalizer) applySign(raw domain.RawTransaction, amount int64) int64 {
	kind := strings.ToLower(stringValue(raw[n.signs.Field]))
	if kind == "" {
		return amount
	}

	abs := amount
	if abs < 0 {
		abs = -abs
	}
	if containsFold(n.signs.DebitTypes, kind) {
		return -abs
	}
	if containsFold(n.signs.CreditTypes, kind) {
		return abs
	}
	return amount
}

func (n *Normalizer) payee(raw domain.RawTransaction) string {
	for _, key := range n.fields.Payee {
		if s := stringValue(raw[key]); s != "" {
			return s
		}
	}
	return UnknownPayee
}

func (n *Normalizer) isCleared(raw domain.RawTransaction) bool {
	status := stringValue(raw[n.fields.Status])
	return status != "" && containsFold(n.cleared, status)
}

// externalID prefers the source record ID; sources without one get a
// deterministic UUIDv5 over the normalized fields.
func (n *Normalizer) externalID(raw domain.RawTransaction, tx *domain.Transaction) string {
	if id := stringValue(raw[n.fields.ID]); id != "" {
		return id
	}
	name := fmt.Sprintf("%s|%s|%d|%s", tx.AccountID, tx.Date.Format("2006-01-02"), tx.Amount, tx.Payee)
	return uuid.NewSHA1(externalIDNamespace, []byte(name)).String()
}

// stringValue coerces the loose JSON value types a raw record may hold into
// a trimmed string. Numeric IDs render without an exponent.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return decimal.NewFromFloat(val).String()
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func containsFold(set []string, s string) bool {
	for _, item := range set {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
