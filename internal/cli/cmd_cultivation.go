package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

func newCultivationCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cultivation",
		Short: "Cultivation track management",
	}
	cmd.AddCommand(
		newCultivationAddCommand(deps),
		newCultivationEditCommand(deps),
		newCultivationRemoveCommand(deps),
		newCultivationListCommand(deps),
	)
	return cmd
}

func newCultivationAddCommand(deps *commandDeps) *cobra.Command {
	var (
		accountID int64
		name      string
		trackType string
		mode      string
		exp       int
		current   int
		target    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a cultivation track to an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("cultivation add requires --account")
			}
			if strings.TrimSpace(trackType) == "" {
				return usageErrorf("cultivation add requires --type")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			id, err := rt.store.Cultivations.Create(cmd.Context(), storage.Cultivation{
				AccountID:    accountID,
				Name:         name,
				Type:         trackType,
				Mode:         mode,
				CurrentExp:   exp,
				CurrentLevel: current,
				TargetLevel:  target,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.out, "created cultivation %d\n", id)
			return err
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	cmd.Flags().StringVar(&name, "name", "", "Track name (optional)")
	cmd.Flags().StringVar(&trackType, "type", "", "Track type tag")
	cmd.Flags().StringVar(&mode, "mode", "", "Training mode (defaults to 2w)")
	cmd.Flags().IntVar(&exp, "exp", 0, "Current experience")
	cmd.Flags().IntVar(&current, "current", 0, "Current level")
	cmd.Flags().IntVar(&target, "target", 0, "Target level")
	return cmd
}

func newCultivationEditCommand(deps *commandDeps) *cobra.Command {
	var (
		id      int64
		name    string
		mode    string
		exp     int
		current int
		target  int
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update a cultivation track",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("cultivation edit requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			// Only overwrite the stored name when --name was given.
			var namePtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			return rt.store.Cultivations.Update(cmd.Context(), id, namePtr, mode, exp, current, target)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Track identifier")
	cmd.Flags().StringVar(&name, "name", "", "Track name")
	cmd.Flags().StringVar(&mode, "mode", "", "Training mode (defaults to 2w)")
	cmd.Flags().IntVar(&exp, "exp", 0, "Current experience")
	cmd.Flags().IntVar(&current, "current", 0, "Current level")
	cmd.Flags().IntVar(&target, "target", 0, "Target level")
	return cmd
}

func newCultivationRemoveCommand(deps *commandDeps) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a cultivation track",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("cultivation rm requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.store.Cultivations.Delete(cmd.Context(), id)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Track identifier")
	return cmd
}

func newCultivationListCommand(deps *commandDeps) *cobra.Command {
	var accountID int64

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List an account's cultivation tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("cultivation ls requires --account")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			tracks, err := rt.store.Cultivations.ListByAccount(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return printJSON(deps.out, tracks)
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	return cmd
}
