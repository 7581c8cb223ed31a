package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stageSource source

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage a fiddle in a new temp directory",
	Long: `Load a fiddle and write it, with its package.json, to a new temp
directory. The directory path is printed and the directory is kept.`,
	Args: cobra.NoArgs,
	RunE: runStage,
}

func init() {
	stageSource.addFlags(stageCmd)
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	t, err := newTerminal()
	if err != nil {
		return err
	}
	// No close: it would remove the staged directory.
	defer t.bridge.Unsubscribe(t.out)

	ctx := cmd.Context()
	if err := t.load(ctx, stageSource); err != nil {
		return err
	}
	dir, err := t.files.SaveToTemp(ctx, t.pkg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}
