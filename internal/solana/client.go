package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps the RPC connection used for connectivity diagnostics. These
// calls never feed the transaction ledger: positions are derived from the
// recorded log, not from on-chain account state.
type Client struct {
	rpcClient *rpc.Client
	endpoint  string
}

// NewClient creates a new Solana client and verifies the endpoint answers a
// slot query.
func NewClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("RPC endpoint is not set")
	}

	rpcClient := rpc.New(endpoint)

	// Check connection by getting the current slot
	_, err := rpcClient.GetSlot(context.Background(), rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Solana RPC: %w", err)
	}

	return &Client{
		rpcClient: rpcClient,
		endpoint:  endpoint,
	}, nil
}

// Endpoint returns the RPC endpoint this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ConnectionReport summarizes an RPC connectivity check.
type ConnectionReport struct {
	Network      string `json:"network"`
	Slot         uint64 `json:"slot"`
	Blockhash    string `json:"blockhash"`
	Epoch        uint64 `json:"epoch"`
	SlotIndex    uint64 `json:"slotIndex"`
	SlotsInEpoch uint64 `json:"slotsInEpoch"`
}

// TestConnection runs the slot, latest-blockhash and epoch queries against
// the endpoint and reports what came back.
func (c *Client) TestConnection(ctx context.Context) (*ConnectionReport, error) {
	slot, err := c.rpcClient.GetSlot(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	blockhash, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	epochInfo, err := c.rpcClient.GetEpochInfo(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get epoch info: %w", err)
	}

	return &ConnectionReport{
		Network:      c.endpoint,
		Slot:         slot,
		Blockhash:    blockhash.Value.Blockhash.String(),
		Epoch:        epochInfo.Epoch,
		SlotIndex:    epochInfo.SlotIndex,
		SlotsInEpoch: epochInfo.SlotsInEpoch,
	}, nil
}

// WalletReport summarizes a wallet connectivity check.
type WalletReport struct {
	PublicKey     string  `json:"publicKey"`
	BalanceSOL    float64 `json:"balance"`
	TokenAccounts int     `json:"tokenAccounts"`
}

// TestWallet fetches the lamport balance and SPL token accounts for a wallet
// address.
func (c *Client) TestWallet(ctx context.Context, address string) (*WalletReport, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	balance, err := c.rpcClient.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	tokenAccounts, err := c.rpcClient.GetTokenAccountsByOwner(
		ctx,
		pubkey,
		&rpc.GetTokenAccountsConfig{
			ProgramId: solana.TokenProgramID.ToPointer(),
		},
		&rpc.GetTokenAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get token accounts: %w", err)
	}

	return &WalletReport{
		PublicKey:     address,
		BalanceSOL:    float64(balance.Value) / 1e9, // Convert lamports to SOL
		TokenAccounts: len(tokenAccounts.Value),
	}, nil
}
