// Package cli defines the peek command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/peekproxy/peek/internal/config"
	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type rootFlags struct {
	configFile string
	target     string
	listen     string
	capacity   int
	level      int
	verbose    bool
}

// NewRootCommand builds the peek command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "peek",
		Short: "Capturing reverse proxy with a live terminal viewer",
		Long: `peek sits between a client and an HTTP service, forwards every
request, and shows the captured traffic in an interactive terminal
viewer. Adjust the detail level with +/- and select exchanges with
the arrow keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			return runViewer(cfg)
		},
	}

	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: peek.yaml)")
	root.Flags().StringVar(&flags.target, "target", "", "target URL to forward to")
	root.Flags().StringVar(&flags.listen, "listen", "", "address to listen on")
	root.Flags().IntVar(&flags.capacity, "capacity", 0, "history capacity")
	root.Flags().IntVar(&flags.level, "level", 0, "initial detail level (1-6)")
	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newExportCommand(flags))
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the peek version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("peek %s\n", Version)
		},
	}
}

// resolveConfig merges the config file, env overrides, and command line
// flags. Flags win over everything else.
func resolveConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := resolveExportConfig(flags)
	if err != nil {
		return nil, err
	}
	if cfg.Target == "" {
		return nil, fmt.Errorf("no target configured: set --target or add one to %s", constants.DefaultConfigFile)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveExportConfig is resolveConfig without the target requirement;
// the export subcommand only needs the storage and export sections.
func resolveExportConfig(flags *rootFlags) (*config.Config, error) {
	var cfg *config.Config

	path := flags.configFile
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			if flags.configFile == "" && errors.Is(err, domain.ErrConfigNotFound) {
				loaded = config.Default()
			} else {
				return nil, err
			}
		}
		cfg = loaded

		// Paths in the config file are relative to the file, not the
		// working directory the command happens to run from.
		base := filepath.Dir(path)
		cfg.EnvFile = config.ResolvePath(cfg.EnvFile, base)
		cfg.Log.File = config.ResolvePath(cfg.Log.File, base)
	} else {
		cfg = config.Default()
	}

	fileEnv, err := config.LoadEnvFile(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, fileEnv)

	if flags.target != "" {
		cfg.Target = flags.target
	}
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}
	if flags.capacity > 0 {
		cfg.History.Capacity = flags.capacity
	}
	if flags.level > 0 {
		cfg.Display.DetailLevel = flags.level
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
