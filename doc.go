// Package easyapi drives a fetch operation on behalf of a UI: it tracks the
// operation's loading, result and error state, answers repeated calls from a
// keyed cache with optional expiry, and cancels calls that a newer call has
// superseded.
//
// Create one [Store] at the top of the application and hand it to every
// orchestrator that should share cached results:
//
//	store := easyapi.NewStore()
//
//	products, err := easyapi.New(ctx, client.Products,
//		easyapi.WithCache(store),
//		easyapi.WithCacheTTL(5*time.Minute),
//		easyapi.WithCancellation(),
//	)
//
//	unsubscribe := products.OnStateChange(func(s easyapi.State[[]Product]) {
//		// re-render
//	})
//	defer unsubscribe()
//
//	items, err := products.Call(ctx, "shoes")
//
// Calls with structurally equal arguments share a cache entry. Errors are
// never cached. A call made while another is in flight cancels the earlier
// call's context; the earlier call still returns its own outcome to its
// caller, but it no longer changes the orchestrator's state.
//
// Cancellation is cooperative. The operation receives a context that is
// cancelled on supersession or [Orchestrator.Abort] and is expected to stop
// on its own.
package easyapi
