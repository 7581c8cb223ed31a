package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	t, err := newTerminal()
	if err != nil {
		return err
	}
	defer t.close()

	names, err := t.catalog.List()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if len(names) == 0 {
		t.ui.Warning(fmt.Sprintf("No templates in %s", cfg.TemplatesDir))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
