package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

func newSkillCommand(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Master and assist skill management",
	}
	cmd.AddCommand(
		newSkillAddCommand(deps),
		newSkillEditCommand(deps),
		newSkillRemoveCommand(deps),
		newSkillListCommand(deps),
	)
	return cmd
}

func skillRepo(rt *runtime, kind string) (storage.SkillRepository, error) {
	switch kind {
	case "master":
		return rt.store.MasterSkills, nil
	case "assist":
		return rt.store.AssistSkills, nil
	}
	return nil, usageErrorf("--kind must be master or assist, got %q", kind)
}

func newSkillAddCommand(deps *commandDeps) *cobra.Command {
	var (
		kind      string
		accountID int64
		name      string
		current   int
		target    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a skill to an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("skill add requires --account")
			}
			if strings.TrimSpace(name) == "" {
				return usageErrorf("skill add requires --name")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			repo, err := skillRepo(rt, kind)
			if err != nil {
				return err
			}
			id, err := repo.Create(cmd.Context(), accountID, name, current, target)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.out, "created %s skill %d\n", kind, id)
			return err
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "master", "Skill kind: master or assist")
	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	cmd.Flags().StringVar(&name, "name", "", "Skill name")
	cmd.Flags().IntVar(&current, "current", 0, "Current level")
	cmd.Flags().IntVar(&target, "target", 0, "Target level")
	return cmd
}

func newSkillEditCommand(deps *commandDeps) *cobra.Command {
	var (
		kind    string
		id      int64
		current int
		target  int
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update a skill's level pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("skill edit requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			repo, err := skillRepo(rt, kind)
			if err != nil {
				return err
			}
			return repo.UpdateLevels(cmd.Context(), id, current, target)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "master", "Skill kind: master or assist")
	cmd.Flags().Int64Var(&id, "id", 0, "Skill identifier")
	cmd.Flags().IntVar(&current, "current", 0, "Current level")
	cmd.Flags().IntVar(&target, "target", 0, "Target level")
	return cmd
}

func newSkillRemoveCommand(deps *commandDeps) *cobra.Command {
	var (
		kind string
		id   int64
	)

	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a skill",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == 0 {
				return usageErrorf("skill rm requires --id")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			repo, err := skillRepo(rt, kind)
			if err != nil {
				return err
			}
			return repo.Delete(cmd.Context(), id)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "master", "Skill kind: master or assist")
	cmd.Flags().Int64Var(&id, "id", 0, "Skill identifier")
	return cmd
}

func newSkillListCommand(deps *commandDeps) *cobra.Command {
	var (
		kind      string
		accountID int64
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List an account's skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return usageErrorf("skill ls requires --account")
			}

			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			repo, err := skillRepo(rt, kind)
			if err != nil {
				return err
			}
			skills, err := repo.ListByAccount(cmd.Context(), accountID)
			if err != nil {
				return err
			}
			return printJSON(deps.out, skills)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "master", "Skill kind: master or assist")
	cmd.Flags().Int64Var(&accountID, "account", 0, "Owning account identifier")
	return cmd
}
