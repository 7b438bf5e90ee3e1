package easyapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	easyapi "github.com/probablyarth/easyapi-go"
)

func TestCancellerNextSupersedes(t *testing.T) {
	var c easyapi.Canceller
	assert.Nil(t, c.Current())

	first, prev := c.Next(context.Background())
	assert.Nil(t, prev)
	assert.False(t, first.Cancelled())
	assert.NotEmpty(t, first.ID())

	second, prev := c.Next(context.Background())
	require.Same(t, first, prev)
	assert.True(t, first.Cancelled())
	assert.ErrorIs(t, first.Cause(), easyapi.ErrSuperseded)
	assert.ErrorIs(t, context.Cause(first.Context()), easyapi.ErrSuperseded)
	assert.False(t, second.Cancelled())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Same(t, second, c.Current())
}

func TestCancellerCancelIsIdempotent(t *testing.T) {
	var c easyapi.Canceller
	assert.Nil(t, c.Cancel(easyapi.ErrAborted), "no live token")

	tok, _ := c.Next(context.Background())
	assert.Same(t, tok, c.Cancel(easyapi.ErrAborted))
	assert.Nil(t, c.Cancel(easyapi.ErrAborted))

	select {
	case <-tok.Done():
	default:
		t.Fatal("token context not cancelled")
	}
	assert.ErrorIs(t, tok.Cause(), easyapi.ErrAborted, "first cause wins")
}

func TestTokenParentCancellationIsNotSignal(t *testing.T) {
	var c easyapi.Canceller
	parent, cancel := context.WithCancel(context.Background())
	tok, _ := c.Next(parent)
	cancel()

	<-tok.Done()
	assert.False(t, tok.Cancelled())
	assert.NoError(t, tok.Cause())
}

func TestTokenFromContext(t *testing.T) {
	assert.Nil(t, easyapi.TokenFromContext(context.Background()))

	var c easyapi.Canceller
	tok, _ := c.Next(context.Background())
	assert.Same(t, tok, easyapi.TokenFromContext(tok.Context()))
}

func TestOperationSeesToken(t *testing.T) {
	var seen *easyapi.Token
	o, err := easyapi.New(context.Background(), func(ctx context.Context, _ easyapi.NoArg) (int, error) {
		seen = easyapi.TokenFromContext(ctx)
		return 1, nil
	}, easyapi.WithCancellation())
	require.NoError(t, err)

	_, err = o.Call(context.Background(), easyapi.NoArg{})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.False(t, seen.Cancelled(), "settling does not mark the token cancelled")
}
