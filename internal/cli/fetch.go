package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	easyapi "github.com/probablyarth/easyapi-go"
	"github.com/probablyarth/easyapi-go/internal/catalog"
	"github.com/probablyarth/easyapi-go/internal/logging"
)

// hitCounter counts cache hits and operation invocations.
type hitCounter struct {
	hits   atomic.Int32
	misses atomic.Int32
}

func (h *hitCounter) On(e easyapi.EventData) {
	switch e.Event {
	case easyapi.EventHit:
		h.hits.Add(1)
	case easyapi.EventMiss:
		h.misses.Add(1)
	}
}

func newFetchCmd(a *app) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "fetch [category...]",
		Short: "Fetch products for categories concurrently, repeating to show cache hits",
		Long: "fetch loads the products of each category in parallel through orchestrators sharing one cache. " +
			"With no arguments every category is fetched. Later rounds are answered from the cache while entries are fresh.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithContext(cmd.Context(), a.log)
			client := catalog.New(a.cfg.Client.BaseURL, &http.Client{Timeout: a.cfg.Client.Timeout})
			return fetch(ctx, cmd.OutOrStdout(), a, client, args, rounds)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 2, "how many times to fetch each category")
	return cmd
}

func fetch(ctx context.Context, w io.Writer, a *app, client *catalog.Client, slugs []string, rounds int) error {
	var store *easyapi.Store
	if a.cfg.Cache.Enabled {
		store = easyapi.NewStore()
	}
	counter := &hitCounter{}

	if len(slugs) == 0 {
		categories, err := easyapi.New(ctx, client.Categories, orchestratorOptions(a, store, counter)...)
		if err != nil {
			return err
		}
		defer categories.Close()
		cats, err := categories.Call(ctx, easyapi.NoArg{})
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		for _, c := range cats {
			slugs = append(slugs, c.Slug)
		}
	}

	// One orchestrator per category, as a UI would hold one per view.
	orchestrators := make([]*easyapi.Orchestrator[string, []catalog.Product], len(slugs))
	for i := range slugs {
		o, err := easyapi.New(ctx, client.Products, orchestratorOptions(a, store, counter)...)
		if err != nil {
			return err
		}
		defer o.Close()
		orchestrators[i] = o
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tCATEGORY\tPRODUCTS\tSTATUS")
	for round := 1; round <= rounds; round++ {
		counts := make([]int, len(slugs))
		g, gctx := errgroup.WithContext(ctx)
		for i, slug := range slugs {
			g.Go(func() error {
				items, err := orchestrators[i].Call(gctx, slug)
				if err != nil {
					return fmt.Errorf("%s: %w", slug, err)
				}
				counts[i] = len(items)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for i, slug := range slugs {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", round, slug, counts[i], orchestrators[i].State().Status)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\noperation calls: %d, cache hits: %d\n", counter.misses.Load(), counter.hits.Load())
	return nil
}

func orchestratorOptions(a *app, store *easyapi.Store, obs easyapi.Observer) []easyapi.Option {
	opts := []easyapi.Option{
		easyapi.WithLogger(a.log),
		easyapi.WithObserver(obs),
	}
	if a.cfg.Client.Cancellation {
		opts = append(opts, easyapi.WithCancellation())
	}
	if store != nil {
		opts = append(opts, easyapi.WithCache(store), easyapi.WithCacheTTL(a.cfg.Cache.TTL))
	}
	return opts
}
