package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fiddle-server/filemanager"
	"fiddle-server/ipc"
)

var (
	saveSource source
	saveForge  bool
)

var saveCmd = &cobra.Command{
	Use:   "save [dir]",
	Short: "Load a fiddle and save it to a directory",
	Long: `Load a fiddle and save it to dir with a freshly derived package.json.
Empty editors are deleted from dir. With --forge the package.json also gets
the electron-forge scripts and devDependency.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSave,
}

func init() {
	saveSource.addFlags(saveCmd)
	saveCmd.Flags().BoolVar(&saveForge, "forge", false, "save as an electron-forge project")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	t, err := newTerminal()
	if err != nil {
		return err
	}
	defer t.close()

	ctx := cmd.Context()
	if err := t.load(ctx, saveSource); err != nil {
		return err
	}

	var transforms []filemanager.Transform
	if saveForge {
		t.saveEvent = ipc.SaveFiddleForge
		transforms = append(transforms, filemanager.ForgeTransform)
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	report := t.files.Save(ctx, dir, transforms...)
	if err := t.drain(ctx); err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d file(s) could not be saved", len(report.Failed))
	}
	return nil
}
