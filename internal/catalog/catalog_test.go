package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	easyapi "github.com/probablyarth/easyapi-go"
	"github.com/probablyarth/easyapi-go/internal/catalog"
	"github.com/probablyarth/easyapi-go/internal/server"
)

func newBackend(t *testing.T, latency time.Duration) (*server.Server, *catalog.Client) {
	t.Helper()
	srv := server.New(latency, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, catalog.New(ts.URL, ts.Client())
}

func TestCategories(t *testing.T) {
	_, client := newBackend(t, 0)

	cats, err := client.Categories(context.Background(), easyapi.NoArg{})
	require.NoError(t, err)
	require.NotEmpty(t, cats)
	assert.Equal(t, "beauty", cats[0].Slug)
}

func TestProducts(t *testing.T) {
	_, client := newBackend(t, 0)

	items, err := client.Products(context.Background(), "laptops")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Apple", items[0].Brand)
}

func TestProductsStatusError(t *testing.T) {
	_, client := newBackend(t, 0)

	_, err := client.Products(context.Background(), "boats")
	var statusErr *catalog.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestProductsHonoursCancellation(t *testing.T) {
	_, client := newBackend(t, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Products(ctx, "laptops")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestOrchestratedProductsAreCached(t *testing.T) {
	srv, client := newBackend(t, 0)
	store := easyapi.NewStore()

	products, err := easyapi.New(context.Background(), client.Products,
		easyapi.WithCache(store), easyapi.WithCancellation())
	require.NoError(t, err)

	first, err := products.Call(context.Background(), "mens-shoes")
	require.NoError(t, err)
	second, err := products.Call(context.Background(), "mens-shoes")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, srv.Requests("/products/category/:slug"))

	_, err = products.CallFresh(context.Background(), "mens-shoes")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Requests("/products/category/:slug"))
}

func TestOrchestratedSupersessionAbandonsRequest(t *testing.T) {
	_, client := newBackend(t, 200*time.Millisecond)

	products, err := easyapi.New(context.Background(), client.Products, easyapi.WithCancellation())
	require.NoError(t, err)

	slow := products.CallAsync(context.Background(), "beauty", false)
	latest, err := products.Call(context.Background(), "laptops")
	require.NoError(t, err)

	_, err = slow.Wait(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	st := products.State()
	assert.Equal(t, easyapi.StatusSuccess, st.Status)
	assert.Equal(t, latest, st.Result)
	assert.Equal(t, "laptops", st.Result[0].Category)
}
