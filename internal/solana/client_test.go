package solana

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientMissingEndpoint(t *testing.T) {
	client, err := NewClient("")
	assert.Error(t, err)
	assert.Nil(t, client)
}

// Network-dependent tests only run when explicitly enabled.
func TestConnectionAgainstLiveEndpoint(t *testing.T) {
	if os.Getenv("RUN_RPC_TESTS") != "true" {
		t.Skip("Skipping live RPC test. Set RUN_RPC_TESTS=true to enable.")
	}

	endpoint := os.Getenv("RPC_URL")
	if endpoint == "" {
		t.Skip("Skipping live RPC test because RPC_URL is not set")
	}

	client, err := NewClient(endpoint)
	require.NoError(t, err)

	report, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, endpoint, report.Network)
	assert.NotZero(t, report.Slot)
	assert.NotEmpty(t, report.Blockhash)
}
