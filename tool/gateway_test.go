package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescope/venturescope/core"
)

type fakeBackend struct {
	cap    core.Capability
	result string
	err    error
	delay  time.Duration
}

func (f *fakeBackend) Capability() core.Capability { return f.cap }

func (f *fakeBackend) Invoke(ctx context.Context, query string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.result + ":" + query, nil
}

func TestGateway_Invoke(t *testing.T) {
	g := NewGateway([]Backend{
		&fakeBackend{cap: core.CapabilitySearch, result: "search"},
	})

	out, err := g.Invoke(context.Background(), core.CapabilitySearch, "acme")
	require.NoError(t, err)
	assert.Equal(t, "search:acme", out)
}

func TestGateway_Has(t *testing.T) {
	g := NewGateway([]Backend{
		&fakeBackend{cap: core.CapabilitySearch},
	})

	assert.True(t, g.Has(core.CapabilitySearch))
	assert.False(t, g.Has(core.CapabilityScrape))
}

func TestGateway_UnknownCapability(t *testing.T) {
	g := NewGateway(nil)

	_, err := g.Invoke(context.Background(), core.CapabilityScrape, "https://example.com")
	require.Error(t, err)
	assert.True(t, core.IsCode(err, core.CodeMisconfigured))
}

func TestGateway_UpstreamError(t *testing.T) {
	g := NewGateway([]Backend{
		&fakeBackend{cap: core.CapabilitySearch, err: errors.New("boom")},
	})

	_, err := g.Invoke(context.Background(), core.CapabilitySearch, "acme")
	require.Error(t, err)
	assert.True(t, core.IsCode(err, core.CodeUpstream))
	assert.Contains(t, err.Error(), "boom")
}

func TestGateway_Timeout(t *testing.T) {
	g := NewGateway([]Backend{
		&fakeBackend{cap: core.CapabilitySearch, delay: 200 * time.Millisecond},
	}, func(o *Options) {
		o.Timeout = 20 * time.Millisecond
	})

	_, err := g.Invoke(context.Background(), core.CapabilitySearch, "acme")
	require.Error(t, err)
	assert.True(t, core.IsCode(err, core.CodeTimeout))
}

func TestGateway_CallerCancellation(t *testing.T) {
	g := NewGateway([]Backend{
		&fakeBackend{cap: core.CapabilitySearch, delay: time.Second},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := g.Invoke(ctx, core.CapabilitySearch, "acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.Code(""), core.CodeOf(err))
}
