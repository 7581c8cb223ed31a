package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runSource source

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stage a fiddle and run it",
	Long: `Load a fiddle, stage it in a temp directory and run the configured
command there. Output is streamed until the fiddle exits or is interrupted;
the staged directory is removed afterwards.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runSource.addFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	t, err := newTerminal()
	if err != nil {
		return err
	}
	defer t.close()

	ctx := cmd.Context()
	if err := t.load(ctx, runSource); err != nil {
		return err
	}
	r, err := t.runs.Start(ctx)
	if err != nil {
		return err
	}

	output := make(chan []byte, 256)
	r.SetClient(output)
	defer r.ClearClient(output)
	if snap := r.ScrollbackSnapshot(); len(snap) > 0 {
		os.Stdout.Write(snap)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case data := <-output:
			os.Stdout.Write(data)
		case <-sig:
			t.runs.Stop(r.ID)
		case <-r.Done():
			return t.drain(ctx)
		}
	}
}
