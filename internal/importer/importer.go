// Package importer implements the fetch -> normalize -> resolve -> filter ->
// import pipeline that moves transactions from the finance API into Actual
// Budget. Records are processed strictly sequentially; one bad record is
// counted and skipped, never aborting the batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"actual-importer/internal/config"
	"actual-importer/internal/domain"
	"actual-importer/internal/logger"
)

// Importer orchestrates one import run.
type Importer struct {
	src     Source
	dst     Destination
	norm    *Normalizer
	mapping map[string]string
	dryRun  bool
}

// New builds an importer from the capability adapters and configuration.
func New(src Source, dst Destination, cfg *config.Config, dryRun bool) *Importer {
	return &Importer{
		src:     src,
		dst:     dst,
		norm:    NewNormalizer(cfg),
		mapping: cfg.AccountMapping,
		dryRun:  dryRun,
	}
}

// Run imports all source transactions in the inclusive date window. It
// returns the aggregate counts plus the per-record results. Only an
// unreachable or unauthenticated service aborts the run; per-record problems
// are recorded and processing continues.
//
// In dry-run mode every step runs except the destination write, so the
// reported counts are what a real run would do.
func (imp *Importer) Run(ctx context.Context, start, end time.Time) (*domain.Stats, []domain.Result, error) {
	log := logger.FromContext(ctx)

	log.Info().
		Str("start_date", start.Format("2006-01-02")).
		Str("end_date", end.Format("2006-01-02")).
		Bool("dry_run", imp.dryRun).
		Msg("Starting transaction import")

	raws, err := imp.src.ListTransactions(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch transactions: %w", err)
	}

	stats := &domain.Stats{Fetched: len(raws), DryRun: imp.dryRun}
	results := make([]domain.Result, 0, len(raws))

	log.Info().Int("count", len(raws)).Msg("Fetched transactions from finance API")

	for i, raw := range raws {
		res, err := imp.processRecord(ctx, raw)
		if err != nil {
			// Fatal: source or destination is gone, stop the run.
			return stats, results, fmt.Errorf("record %d: %w", i, err)
		}

		stats.Record(res)
		results = append(results, res)
	}

	log.Info().
		Int("imported", stats.Imported).
		Int("skipped_duplicate", stats.SkippedDuplicate).
		Int("skipped_unmapped", stats.SkippedUnmapped).
		Int("failed", stats.Failed).
		Bool("dry_run", stats.DryRun).
		Msg("Transaction import completed")

	return stats, results, nil
}

// processRecord runs one raw record through the pipeline. The returned error
// is non-nil only for fatal conditions; recoverable problems come back as an
// OutcomeFailed result.
func (imp *Importer) processRecord(ctx context.Context, raw domain.RawTransaction) (domain.Result, error) {
	log := logger.FromContext(ctx)

	tx, err := imp.norm.Normalize(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping record that failed normalization")
		return domain.Result{Outcome: domain.OutcomeFailed, Err: err}, nil
	}

	dstAccount, ok := ResolveAccount(imp.mapping, tx.AccountID)
	if !ok {
		log.Warn().
			Str("source_account_id", tx.AccountID).
			Str("external_id", tx.ExternalID).
			Msg("No mapping found for source account, skipping record")
		return domain.Result{
			Outcome:    domain.OutcomeSkippedUnmapped,
			ExternalID: tx.ExternalID,
			Err:        fmt.Errorf("%w: %s", ErrUnmappedAccount, tx.AccountID),
		}, nil
	}
	tx.AccountID = dstAccount

	dup, err := IsDuplicate(ctx, tx.ExternalID, imp.dst.HasTransaction)
	if err != nil {
		if isFatal(err) {
			return domain.Result{}, err
		}
		log.Warn().Err(err).Str("external_id", tx.ExternalID).Msg("Duplicate check failed, skipping record")
		return domain.Result{Outcome: domain.OutcomeFailed, ExternalID: tx.ExternalID, Err: err}, nil
	}
	if dup {
		log.Debug().Str("external_id", tx.ExternalID).Msg("Skipping duplicate transaction")
		return domain.Result{Outcome: domain.OutcomeSkippedDuplicate, ExternalID: tx.ExternalID}, nil
	}

	if imp.dryRun {
		log.Info().
			Str("external_id", tx.ExternalID).
			Str("account_id", tx.AccountID).
			Str("date", tx.Date.Format("2006-01-02")).
			Int64("amount", tx.Amount).
			Str("payee", tx.Payee).
			Msg("[DRY RUN] Would import transaction")
		return domain.Result{Outcome: domain.OutcomeImported, ExternalID: tx.ExternalID}, nil
	}

	if err := imp.dst.CreateTransaction(ctx, tx); err != nil {
		if isFatal(err) {
			return domain.Result{}, err
		}
		log.Warn().Err(err).Str("external_id", tx.ExternalID).Msg("Destination rejected transaction, skipping record")
		return domain.Result{Outcome: domain.OutcomeFailed, ExternalID: tx.ExternalID, Err: err}, nil
	}

	log.Debug().
		Str("external_id", tx.ExternalID).
		Str("payee", tx.Payee).
		Int64("amount", tx.Amount).
		Msg("Imported transaction")

	return domain.Result{Outcome: domain.OutcomeImported, ExternalID: tx.ExternalID}, nil
}

func isFatal(err error) bool {
	return errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrAuthentication)
}
