package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBrokers(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brokers")
}

func TestNew_BuildsLazyClient(t *testing.T) {
	// kgo dials lazily, so construction succeeds without a reachable broker.
	cfg := DefaultConfig()
	cfg.Brokers = "127.0.0.1:1, ,127.0.0.1:2"
	p, err := New(cfg, nil)
	require.NoError(t, err)
	p.Close()
	p.Close()
}
