package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidmux/internal/deps"
	"vidmux/internal/preflight"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external dependencies and runtime preconditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cfg)
			caser := cases.Title(language.English)

			depRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "missing"
				if status.Available {
					state = "ok"
				}
				depRows = append(depRows, []string{
					status.Name,
					status.Command,
					caser.String(state),
					yesNo(status.Optional),
					status.Description,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dependencies")
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Command", "State", "Optional", "Notes"},
				depRows,
				nil,
			))

			results := preflight.RunAll(cfg)
			checkRows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "failed"
				if result.Passed {
					state = "ok"
				}
				checkRows = append(checkRows, []string{result.Name, caser.String(state), result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preflight")
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				checkRows,
				nil,
			))

			if !deps.AllRequiredAvailable(statuses) || !preflight.AllPassed(results) {
				return fmt.Errorf("status checks failed")
			}
			return nil
		},
	}
}
