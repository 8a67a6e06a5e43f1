package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

func newSpendCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Gold spend ledger",
	}
	cmd.AddCommand(
		newSpendAddCommand(deps),
		newSpendListCommand(deps),
		newSpendDailyCommand(deps),
		newSpendMonthlyCommand(deps),
	)
	return cmd
}

func newSpendAddCommand(deps *commandDeps) *cobra.Command {
	var (
		accountID int64
		amount    int64
		date      string
		note      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a spend and decrement the account's gold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("spend add requires --account")
			}
			if strings.TrimSpace(date) == "" {
				return usageErrorf("spend add requires --date (YYYY-MM-DD)")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			var notePtr *string
			if cmd.Flags().Changed("note") {
				notePtr = &note
			}
			id, err := rt.store.Spends.Record(cmd.Context(), accountID, amount, date, notePtr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.out, "recorded spend %d\n", id)
			return err
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount spent (negative restores gold)")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date YYYY-MM-DD")
	cmd.Flags().StringVar(&note, "note", "", "Optional note")
	return cmd
}

func newSpendListCommand(deps *commandDeps) *cobra.Command {
	var (
		accountID int64
		start     string
		end       string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List spend logs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			var filter storage.SpendFilter
			if cmd.Flags().Changed("account") {
				filter.AccountID = &accountID
			}
			if cmd.Flags().Changed("start") {
				filter.Start = &start
			}
			if cmd.Flags().Changed("end") {
				filter.End = &end
			}

			logs, err := rt.store.Spends.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(deps.out, logs)
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Filter by account identifier")
	cmd.Flags().StringVar(&start, "start", "", "Inclusive start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Inclusive end date YYYY-MM-DD")
	return cmd
}

func newSpendDailyCommand(deps *commandDeps) *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Sum spends per day over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" || end == "" {
				return usageErrorf("spend daily requires --start and --end")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			summaries, err := rt.store.Spends.DailySummary(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return printJSON(deps.out, summaries)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Inclusive start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Inclusive end date YYYY-MM-DD")
	return cmd
}

func newSpendMonthlyCommand(deps *commandDeps) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Sum spends per month for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				return usageErrorf("spend monthly requires --year")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			summaries, err := rt.store.Spends.MonthlySummary(cmd.Context(), year)
			if err != nil {
				return err
			}
			return printJSON(deps.out, summaries)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Calendar year, e.g. 2024")
	return cmd
}
