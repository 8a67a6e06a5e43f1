package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAccountCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
	}
	cmd.AddCommand(
		newAccountAddCommand(deps),
		newAccountEditCommand(deps),
		newAccountRemoveCommand(deps),
		newAccountListCommand(deps),
	)
	return cmd
}

func newAccountAddCommand(deps *commandDeps) *cobra.Command {
	var (
		name       string
		school     string
		level      int
		experience int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return usageErrorf("account add requires --name")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			id, err := rt.store.Accounts.Create(cmd.Context(), name, school, level, experience)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.out, "created account %d\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().StringVar(&school, "school", "", "School or faction")
	cmd.Flags().IntVar(&level, "level", 0, "Character level")
	cmd.Flags().Int64Var(&experience, "exp", 0, "Character experience")
	return cmd
}

func newAccountEditCommand(deps *commandDeps) *cobra.Command {
	var (
		id         int64
		name       string
		school     string
		level      int
		experience int64
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update an account's fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("account edit requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.store.Accounts.Update(cmd.Context(), id, name, school, level, experience)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Account identifier")
	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().StringVar(&school, "school", "", "School or faction")
	cmd.Flags().IntVar(&level, "level", 0, "Character level")
	cmd.Flags().Int64Var(&experience, "exp", 0, "Character experience")
	return cmd
}

func newAccountRemoveCommand(deps *commandDeps) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete an account and everything it owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("account rm requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.store.Accounts.Delete(cmd.Context(), id)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Account identifier")
	return cmd
}

func newAccountListCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			accounts, err := rt.store.Accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(deps.out, accounts)
		},
	}
	return cmd
}
