package client

import (
	"context"
	"encoding/base64"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
)

type Config struct {
	Endpoint string
}

// MintClient is a typed JSON-RPC client for a mint node
type MintClient struct {
	cfg     Config
	channel *jhttp.Channel
	rpc     *jrpc2.Client
}

func NewClient(cfg Config) *MintClient {
	channel := jhttp.NewChannel(cfg.Endpoint, nil)
	return &MintClient{
		cfg:     cfg,
		channel: channel,
		rpc:     jrpc2.NewClient(channel, nil),
	}
}

// Claim submits a signed claim for the current cursor index
func (c *MintClient) Claim(ctx context.Context, submission *ClaimSubmission) (*ClaimResult, error) {
	var result ClaimResult
	if err := c.rpc.CallResult(ctx, "mint.claim", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MintClient) ExpectedHash(ctx context.Context, index uint32) (*ExpectedHashResult, error) {
	var result ExpectedHashResult
	if err := c.rpc.CallResult(ctx, "mint.expectedhash", map[string]uint32{"index": index}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MintClient) Phase(ctx context.Context, index uint32) (*PhaseResult, error) {
	var result PhaseResult
	if err := c.rpc.CallResult(ctx, "mint.phase", map[string]uint32{"index": index}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Assemble fetches the artifact covering chunks 0 through upToIndex. The
// returned bytes are already base64-decoded.
func (c *MintClient) Assemble(ctx context.Context, upToIndex uint32) ([]byte, *AssembleResult, error) {
	var result AssembleResult
	if err := c.rpc.CallResult(ctx, "mint.assemble", map[string]uint32{"up_to_index": upToIndex}, &result); err != nil {
		return nil, nil, err
	}
	data, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return nil, nil, err
	}
	return data, &result, nil
}

func (c *MintClient) HasClaimed(ctx context.Context, address string) (bool, error) {
	var result HasClaimedResult
	if err := c.rpc.CallResult(ctx, "mint.hasclaimed", map[string]string{"address": address}, &result); err != nil {
		return false, err
	}
	return result.HasClaimed, nil
}

func (c *MintClient) NextIndex(ctx context.Context) (*NextIndexResult, error) {
	var result NextIndexResult
	if err := c.rpc.CallResult(ctx, "mint.nextindex", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MintClient) Balance(ctx context.Context) (string, error) {
	var result BalanceResult
	if err := c.rpc.CallResult(ctx, "mint.balance", nil, &result); err != nil {
		return "", err
	}
	return result.Balance, nil
}

// Withdraw sweeps the accumulated balance; the submission must be signed by
// the configured owner key
func (c *MintClient) Withdraw(ctx context.Context, submission *WithdrawSubmission) (*WithdrawResult, error) {
	var result WithdrawResult
	if err := c.rpc.CallResult(ctx, "mint.withdraw", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *MintClient) OwnerOf(ctx context.Context, tokenID uint32) (string, error) {
	var result OwnerOfResult
	if err := c.rpc.CallResult(ctx, "token.ownerof", map[string]uint32{"token_id": tokenID}, &result); err != nil {
		return "", err
	}
	return result.Owner, nil
}

func (c *MintClient) Approve(ctx context.Context, caller string, tokenID uint32, delegate string) error {
	var result OkResult
	params := map[string]interface{}{"caller": caller, "token_id": tokenID, "delegate": delegate}
	return c.rpc.CallResult(ctx, "token.approve", params, &result)
}

func (c *MintClient) Transfer(ctx context.Context, caller, from, to string, tokenID uint32) error {
	var result OkResult
	params := map[string]interface{}{"caller": caller, "from": from, "to": to, "token_id": tokenID}
	return c.rpc.CallResult(ctx, "token.transfer", params, &result)
}

func (c *MintClient) CheckHealth(ctx context.Context) (*HealthResult, error) {
	var result HealthResult
	if err := c.rpc.CallResult(ctx, "health.check", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Close shuts down the underlying HTTP channel
func (c *MintClient) Close() error {
	return c.rpc.Close()
}
