package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/probablyarth/easyapi-go/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fake catalog service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, a.cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().Duration("latency", 0, "artificial response delay")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("server.latency", cmd.Flags().Lookup("latency"))
	return cmd
}

// serve runs the catalog server until ctx ends.
func serve(ctx context.Context, a *app, addr string) error {
	srv := server.New(a.cfg.Server.Latency, a.log)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
