package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	easyapi "github.com/probablyarth/easyapi-go"
	"github.com/probablyarth/easyapi-go/internal/catalog"
	"github.com/probablyarth/easyapi-go/internal/logging"
	"github.com/probablyarth/easyapi-go/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		embedded bool
		logFile  string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			// The UI owns the terminal, so logs go to a file or nowhere.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			a.log = logging.NewWithWriter(logging.Config{
				Level:      a.cfg.Log.Level,
				Format:     "json",
				TimeFormat: logging.DefaultConfig().TimeFormat,
			}, out)

			baseURL := a.cfg.Client.BaseURL
			if embedded {
				srvCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go func() {
					if err := serve(srvCtx, a, a.cfg.Server.Addr); err != nil {
						a.log.Error().Err(err).Msg("embedded server stopped")
					}
				}()
				baseURL = "http://" + a.cfg.Server.Addr
			}

			var store *easyapi.Store
			if a.cfg.Cache.Enabled {
				store = easyapi.NewStore()
			}
			client := catalog.New(baseURL, &http.Client{Timeout: a.cfg.Client.Timeout})
			return tui.Run(logging.WithContext(ctx, a.log), client, tui.Options{
				Store:        store,
				CacheTTL:     a.cfg.Cache.TTL,
				Cancellation: a.cfg.Client.Cancellation,
				Logger:       a.log,
			})
		},
	}
	cmd.Flags().BoolVar(&embedded, "serve", false, "start the fake catalog service in-process")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
