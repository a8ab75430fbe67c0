// Package main provides the cosmic-sv2vcf command-line tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/cosmic-sv2vcf/internal/convert"
	"github.com/inodb/cosmic-sv2vcf/internal/cosmic"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Configuration keys
const (
	keyChrPrefix   = "chr-prefix"
	keyPrefixBuild = "prefix-build"
	keyLogLevel    = "log-level"
)

var cfgFile string

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var dup *cosmic.DuplicateKeyError
		if errors.As(err, &dup) {
			fmt.Fprintf(os.Stderr, "Hint: rename one of the columns so their INFO keys differ\n")
		}
		var usage *usageError
		if errors.As(err, &usage) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks command-line mistakes.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	var opts convert.Options

	cmd := &cobra.Command{
		Use:   "cosmic-sv2vcf",
		Short: "Convert COSMIC structural variants to VCF",
		Long: `cosmic-sv2vcf converts COSMIC breakpoint and copy-number exports into
VCF records with SVTYPE, CT (connection type) and the source columns as INFO fields.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       convertExample,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, opts)
		},
	}
	addConvertFlags(cmd, &opts)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.cosmic-sv2vcf.yaml)")
	cmd.PersistentFlags().String(keyLogLevel, "info", "log level: debug, info, warn, error")
	viper.BindPFlag(keyLogLevel, cmd.PersistentFlags().Lookup(keyLogLevel))

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newRecordsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig reads the config file and environment.
func initConfig() error {
	viper.SetDefault(keyChrPrefix, "chr")
	viper.SetDefault(keyPrefixBuild, "38")
	viper.SetDefault(keyLogLevel, "info")

	viper.SetEnvPrefix("COSMIC_SV2VCF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.SetConfigFile(filepath.Join(home, ".cosmic-sv2vcf.yaml"))
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; "config set" creates it.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
