package auth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type adminKey struct{}

// WithAdmin returns ctx carrying the authorized administrator.
func WithAdmin(ctx context.Context, address common.Address) context.Context {
	return context.WithValue(ctx, adminKey{}, address)
}

// AdminFromContext returns the administrator set by WithAdmin.
func AdminFromContext(ctx context.Context) (common.Address, bool) {
	addr, ok := ctx.Value(adminKey{}).(common.Address)
	return addr, ok
}
