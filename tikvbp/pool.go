package tikvbp

import (
	"context"

	"github.com/maestro-org/tikvpool/clientpool"
)

// Default pool names used in metrics and logs.
const (
	DefaultRawPoolName = "tikv-raw"
	DefaultTxnPoolName = "tikv-txn"
)

// RawPool is a pool of RawClients.
type RawPool = clientpool.Pool[RawClient]

// TxnPool is a pool of TxnClients.
type TxnPool = clientpool.Pool[TxnClient]

// NewRawPool creates a RawConnectionManager from cfg and a channel pool
// on top of it.
func NewRawPool(ctx context.Context, cfg PoolConfig, opts ...Option) (RawPool, error) {
	manager, err := NewRawConnectionManager(cfg.Endpoints, cfg.Client, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Pool.Name == "" {
		cfg.Pool.Name = DefaultRawPoolName
	}
	return clientpool.NewChannelPool[RawClient](ctx, cfg.Pool, manager)
}

// NewTxnPool creates a TransactionalConnectionManager from cfg and a channel
// pool on top of it.
func NewTxnPool(ctx context.Context, cfg PoolConfig, opts ...Option) (TxnPool, error) {
	manager, err := NewTransactionalConnectionManager(cfg.Endpoints, cfg.Client, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Pool.Name == "" {
		cfg.Pool.Name = DefaultTxnPoolName
	}
	return clientpool.NewChannelPool[TxnClient](ctx, cfg.Pool, manager)
}
