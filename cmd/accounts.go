package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"actual-importer/internal/actual"
	"actual-importer/internal/config"
	"actual-importer/internal/domain"
	"actual-importer/internal/financeapi"
	"actual-importer/internal/logger"
)

func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "accounts",
		Short:         "List accounts from both systems to help configure the account mapping",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(cmd.Context())
		},
	}
}

func runAccounts(parent context.Context) error {
	log := newLogger()

	ctx, cancel := context.WithTimeout(parent, runTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	src := financeapi.New(cfg.FinanceAPIURL, cfg.FinanceAPIUsername, cfg.FinanceAPIPassword)
	dst := actual.New(cfg.ActualServerURL, cfg.ActualPassword, cfg.ActualEncryptionKey, cfg.ActualBudgetID)

	sourceAccounts, err := src.ListAccounts(ctx)
	if err != nil {
		return err
	}
	destAccounts, err := dst.ListAccounts(ctx)
	if err != nil {
		return err
	}

	printAccounts("Finance API Accounts", sourceAccounts)
	printAccounts("Actual Budget Accounts", destAccounts)

	pterm.Info.Println("Use these IDs to configure ACCOUNT_MAPPING in the environment.")
	pterm.Info.Println("Format: ACCOUNT_MAPPING=finance_id1:actual_id1,finance_id2:actual_id2")
	return nil
}

func printAccounts(title string, accounts []domain.Account) {
	pterm.DefaultSection.Println(title)

	rows := pterm.TableData{{"ID", "Name"}}
	for _, acc := range accounts {
		rows = append(rows, []string{acc.ID, acc.Name})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err)
	}
}
