package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

func newChangeLogCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Progression change history",
	}
	cmd.AddCommand(
		newChangeLogAddCommand(deps),
		newChangeLogListCommand(deps),
	)
	return cmd
}

func newChangeLogAddCommand(deps *commandDeps) *cobra.Command {
	var (
		accountID       int64
		category        string
		name            string
		fromLevel       int
		toLevel         int
		fromExp         int
		toExp           int
		consumedExp     int64
		consumedMoney   int64
		consumedGang    int64
		consumedCultExp int64
		date            string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a change record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("changelog add requires --account")
			}
			if strings.TrimSpace(category) == "" {
				return usageErrorf("changelog add requires --category")
			}
			if strings.TrimSpace(date) == "" {
				return usageErrorf("changelog add requires --date (YYYY-MM-DD)")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			entry := storage.ChangeLog{
				AccountID:              accountID,
				Category:               category,
				Name:                   name,
				ConsumedExp:            consumedExp,
				ConsumedMoney:          consumedMoney,
				ConsumedGang:           consumedGang,
				ConsumedCultivationExp: consumedCultExp,
				Date:                   date,
			}
			if cmd.Flags().Changed("from-level") {
				entry.FromLevel = &fromLevel
			}
			if cmd.Flags().Changed("to-level") {
				entry.ToLevel = &toLevel
			}
			if cmd.Flags().Changed("from-exp") {
				entry.FromExp = &fromExp
			}
			if cmd.Flags().Changed("to-exp") {
				entry.ToExp = &toExp
			}

			id, err := rt.store.ChangeLogs.Create(cmd.Context(), entry)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.out, "created change log %d\n", id)
			return err
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	cmd.Flags().StringVar(&category, "category", "", "Change category: master, assist or cultivation")
	cmd.Flags().StringVar(&name, "name", "", "Skill or track name")
	cmd.Flags().IntVar(&fromLevel, "from-level", 0, "Level before the change")
	cmd.Flags().IntVar(&toLevel, "to-level", 0, "Level after the change")
	cmd.Flags().IntVar(&fromExp, "from-exp", 0, "Experience before the change")
	cmd.Flags().IntVar(&toExp, "to-exp", 0, "Experience after the change")
	cmd.Flags().Int64Var(&consumedExp, "consumed-exp", 0, "Experience consumed")
	cmd.Flags().Int64Var(&consumedMoney, "consumed-money", 0, "Money consumed")
	cmd.Flags().Int64Var(&consumedGang, "consumed-gang", 0, "Faction currency consumed")
	cmd.Flags().Int64Var(&consumedCultExp, "consumed-cultivation-exp", 0, "Cultivation experience consumed")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date YYYY-MM-DD")
	return cmd
}

func newChangeLogListCommand(deps *commandDeps) *cobra.Command {
	var accountID int64

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List an account's change records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("changelog ls requires --account")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			entries, err := rt.store.ChangeLogs.ListByAccount(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return printJSON(deps.out, entries)
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	return cmd
}
