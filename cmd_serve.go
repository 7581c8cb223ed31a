package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fiddle-server/api"
	"fiddle-server/config"
	"fiddle-server/filemanager"
	"fiddle-server/ipc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the IPC websocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080, or :$PORT)")
	serveCmd.Flags().String("static-dir", "", "directory with the editor front end")
	cobra.CheckErr(v.BindPFlag(config.KeyAddr, serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(v.BindPFlag(config.KeyStaticDir, serveCmd.Flags().Lookup("static-dir")))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(b *ipc.Bridge) filemanager.CustomEditorVerifier {
		return &ipc.Verifier{Bridge: b, Timeout: cfg.VerifyTimeout}
	})
	if err != nil {
		return err
	}
	defer a.close()

	var static fs.FS
	if a.staticDir != "" {
		static = os.DirFS(a.staticDir)
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.RegisterRoutes(api.Deps{
			Files:     a.files,
			Editor:    a.editor,
			Store:     a.store,
			Templates: a.catalog,
			Runs:      a.runs,
			Bridge:    a.bridge,
			Package:   a.pkg,
			Static:    static,
			Log:       log,
		}),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("fiddle listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
