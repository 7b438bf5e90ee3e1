// Package cli implements the easyapi command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/probablyarth/easyapi-go/internal/config"
	"github.com/probablyarth/easyapi-go/internal/logging"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitRuntimeError = 1
)

// app carries what every subcommand needs once flags and config are read.
type app struct {
	v   *viper.Viper
	cfg config.Config
	log zerolog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "easyapi",
		Short:         "Cached, cancellable catalog fetching demo",
		Long:          "easyapi drives a product catalog through request orchestrators with caching, expiry and supersession.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := root.PersistentFlags()
	flags.String("base-url", "", "catalog base URL")
	flags.Bool("cache", true, "cache successful results")
	flags.Duration("cache-ttl", 0, "cache entry lifetime (0 keeps config value)")
	flags.Bool("cancellation", true, "cancel superseded requests")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-format", "", "console or json")

	bind := map[string]string{
		"client.base_url":     "base-url",
		"cache.enabled":       "cache",
		"cache.ttl":           "cache-ttl",
		"client.cancellation": "cancellation",
		"log.level":           "log-level",
		"log.format":          "log-format",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newFetchCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print easyapi version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "easyapi version %s\n", version)
		},
	})
	return root
}

// Run executes the root command and returns an exit code.
func Run() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return ExitRuntimeError
	}
	return ExitSuccess
}

func (a *app) load() error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		TimeFormat: logging.DefaultConfig().TimeFormat,
	})
	return nil
}
