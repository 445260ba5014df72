package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Provider is the EIP-1193 surface of a wallet: JSON-RPC requests plus
// accountsChanged/chainChanged notifications.
type Provider interface {
	Request(ctx context.Context, result any, method string, params ...any) error
	// Subscribe delivers notifications for event into ch, which must be a
	// writable channel of the event's payload type.
	Subscribe(ctx context.Context, event string, ch any) (Subscription, error)
	Close()
}

// Subscription is an active notification stream.
type Subscription interface {
	Unsubscribe()
	Err() <-chan error
}

// RPCProvider reaches a wallet that exposes EIP-1193 over JSON-RPC (HTTP, WS or IPC).
type RPCProvider struct {
	client *rpc.Client
}

// DialProvider connects to the wallet at url.
func DialProvider(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet provider: %w", err)
	}
	return NewRPCProvider(client), nil
}

// NewRPCProvider wraps an established rpc.Client.
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// Request issues a JSON-RPC call.
func (p *RPCProvider) Request(ctx context.Context, result any, method string, params ...any) error {
	return p.client.CallContext(ctx, result, method, params...)
}

// Subscribe opens an eth_subscribe stream for a provider event.
func (p *RPCProvider) Subscribe(ctx context.Context, event string, ch any) (Subscription, error) {
	sub, err := p.client.Subscribe(ctx, "eth", ch, event)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// RPCClient exposes the underlying client so reads can go through ethclient.
func (p *RPCProvider) RPCClient() *rpc.Client {
	return p.client
}

// Close closes the connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}
