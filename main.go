package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fiddle-server/config"
	"fiddle-server/logging"
)

var (
	v   = viper.New()
	cfg config.Config
	log *logrus.Logger

	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "fiddle",
	Short: "Local file manager for Electron fiddles",
	Long: `fiddle opens, saves and stages Electron fiddles on local disk.

"fiddle serve" backs a browser editor over HTTP and the IPC websocket.
The other commands drive the same file manager from the terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	cobra.CheckErr(config.BindFlags(rootCmd.PersistentFlags(), v))
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; answer every question with its default")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	configFile, _ := cmd.Flags().GetString("config")

	var err error
	cfg, err = config.Load(v, configFile)
	if err != nil {
		return err
	}
	log, err = logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
