package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openSource source

var openCmd = &cobra.Command{
	Use:   "open [dir]",
	Short: "Open a fiddle and list its editors",
	Long: `Open a fiddle directory (or a template with --template) and list its
editors. Files outside the known editors are confirmed one by one unless
the custom editor policy says otherwise; accepted names are remembered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().StringVar(&openSource.template, "template", "", "template to open instead of a directory")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	t, err := newTerminal()
	if err != nil {
		return err
	}
	defer t.close()

	src := openSource
	if len(args) == 1 {
		src.from = args[0]
	}
	if err := t.load(cmd.Context(), src); err != nil {
		return err
	}

	opts := t.editor.Options()
	if opts.TemplateName != "" {
		t.ui.Header(fmt.Sprintf("Template %s", opts.TemplateName))
	} else {
		t.ui.Header(opts.FilePath)
	}
	values := t.editor.Values()
	for _, name := range values.Names() {
		if values[name] == "" {
			t.ui.Printf("  %-20s (empty)\n", name)
			continue
		}
		t.ui.Printf("  %-20s %d bytes\n", name, len(values[name]))
	}
	return nil
}
