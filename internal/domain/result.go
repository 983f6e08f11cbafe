package domain

// Outcome classifies what happened to one candidate record during a run.
type Outcome string

const (
	// OutcomeImported means the record was created in the budget server
	// (or would have been, in dry-run mode).
	OutcomeImported Outcome = "imported"

	// OutcomeSkippedDuplicate means the budget server already holds a
	// transaction with this external ID.
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"

	// OutcomeSkippedUnmapped means the account mapping is configured but
	// has no entry for the record's source account.
	OutcomeSkippedUnmapped Outcome = "skipped_unmapped"

	// OutcomeFailed means the record could not be normalized or the budget
	// server rejected the create call. The batch continues past it.
	OutcomeFailed Outcome = "failed"
)

// Result is the per-record outcome of a run.
type Result struct {
	Outcome    Outcome
	ExternalID string
	Err        error
}

// Stats aggregates the per-record outcomes of one run.
type Stats struct {
	Fetched          int
	Imported         int
	SkippedDuplicate int
	SkippedUnmapped  int
	Failed           int
	DryRun           bool
}

// Record folds one result into the counters.
func (s *Stats) Record(r Result) {
	switch r.Outcome {
	case OutcomeImported:
		s.Imported++
	case OutcomeSkippedDuplicate:
		s.SkippedDuplicate++
	case OutcomeSkippedUnmapped:
		s.SkippedUnmapped++
	case OutcomeFailed:
		s.Failed++
	}
}
