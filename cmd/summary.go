package cmd

import (
	"strconv"

	"github.com/pterm/pterm"

	"actual-importer/internal/domain"
)

// printSummary renders the end-of-run counts. Always shown, even when some
// records failed.
func printSummary(stats *domain.Stats) {
	title := "Import Summary"
	if stats.DryRun {
		title = "Import Summary (dry run)"
	}
	pterm.DefaultSection.Println(title)

	rows := pterm.TableData{
		{"Fetched", strconv.Itoa(stats.Fetched)},
		{"Imported", strconv.Itoa(stats.Imported)},
		{"Skipped (duplicate)", strconv.Itoa(stats.SkippedDuplicate)},
		{"Skipped (unmapped account)", strconv.Itoa(stats.SkippedUnmapped)},
		{"Failed", strconv.Itoa(stats.Failed)},
	}
	if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
	}
}
