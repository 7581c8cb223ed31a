// Package config resolves settings from flags, FIDDLE_* environment
// variables, an optional .env file and an optional config file, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys
const (
	KeyAddr                = "addr"
	KeyStateFile           = "state_file"
	KeyTemplatesDir        = "templates_dir"
	KeyStaticDir           = "static_dir"
	KeyRunCommand          = "run_command"
	KeyIncludeDependencies = "include_dependencies"
	KeyIncludeElectron     = "include_electron"
	KeyElectronVersion     = "electron_version"
	KeyCustomEditors       = "custom_editors"
	KeyVerifyTimeout       = "verify_timeout"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
)

// Custom editor policies
const (
	PolicyAsk    = "ask"
	PolicyAccept = "accept"
	PolicyReject = "reject"
)

// Config is the resolved configuration.
type Config struct {
	Addr                string
	StateFile           string
	TemplatesDir        string
	StaticDir           string
	RunCommand          []string
	IncludeDependencies bool
	IncludeElectron     bool
	ElectronVersion     string
	CustomEditors       string
	VerifyTimeout       time.Duration
	LogLevel            string
	LogFormat           string
}

func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "electron-fiddle", "state.json")
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	v.SetDefault(KeyAddr, addr)
	v.SetDefault(KeyStateFile, defaultStateFile())
	v.SetDefault(KeyTemplatesDir, "templates")
	v.SetDefault(KeyStaticDir, "")
	v.SetDefault(KeyRunCommand, []string{"npx", "electron", "."})
	v.SetDefault(KeyIncludeDependencies, true)
	v.SetDefault(KeyIncludeElectron, true)
	v.SetDefault(KeyElectronVersion, "30.0.0")
	v.SetDefault(KeyCustomEditors, PolicyAsk)
	v.SetDefault(KeyVerifyTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// BindFlags defines the persistent flags and binds them to v.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("state-file", "", "where custom editors and recent fiddles are stored")
	flags.String("templates-dir", "", "directory holding one subdirectory per template")
	flags.Bool("include-dependencies", true, "write module dependencies into staged package.json")
	flags.Bool("include-electron", true, "write the electron version into staged package.json")
	flags.String("electron-version", "", "electron version used for package.json")
	flags.String("custom-editors", "", "unknown files on open: ask, accept or reject")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text or json)")

	bindings := map[string]string{
		KeyStateFile:           "state-file",
		KeyTemplatesDir:        "templates-dir",
		KeyIncludeDependencies: "include-dependencies",
		KeyIncludeElectron:     "include-electron",
		KeyElectronVersion:     "electron-version",
		KeyCustomEditors:       "custom-editors",
		KeyLogLevel:            "log-level",
		KeyLogFormat:           "log-format",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads the first .env found in paths. Missing files are fine;
// variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load resolves the configuration from v. configFile may be empty.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("FIDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Addr:                v.GetString(KeyAddr),
		StateFile:           v.GetString(KeyStateFile),
		TemplatesDir:        v.GetString(KeyTemplatesDir),
		StaticDir:           v.GetString(KeyStaticDir),
		RunCommand:          v.GetStringSlice(KeyRunCommand),
		IncludeDependencies: v.GetBool(KeyIncludeDependencies),
		IncludeElectron:     v.GetBool(KeyIncludeElectron),
		ElectronVersion:     v.GetString(KeyElectronVersion),
		CustomEditors:       strings.ToLower(v.GetString(KeyCustomEditors)),
		VerifyTimeout:       v.GetDuration(KeyVerifyTimeout),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFormat:           v.GetString(KeyLogFormat),
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that have a fixed set of choices.
func (c Config) Validate() error {
	switch c.CustomEditors {
	case PolicyAsk, PolicyAccept, PolicyReject:
	default:
		return fmt.Errorf("invalid custom_editors %q: must be ask, accept or reject", c.CustomEditors)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if c.VerifyTimeout < 0 {
		return fmt.Errorf("invalid verify_timeout %v: must not be negative", c.VerifyTimeout)
	}
	return nil
}
