package tikvtest

import (
	"context"
	"slices"
	"sync"

	"github.com/maestro-org/tikvpool/tikvbp"
)

// DialCall records one call to a Dialer.
type DialCall struct {
	// Txn is true for DialTxn and DialTxnWithConfig.
	Txn bool

	// WithConfig is true for the config-aware variants.
	WithConfig bool

	Endpoints []string

	// Config is nil for the default variants.
	Config *tikvbp.ClientConfig
}

// Dialer opens clients on a Store and records every call.
//
// It implements both tikvbp.RawDialer and tikvbp.TxnDialer.
type Dialer struct {
	store *Store

	mu    sync.Mutex
	calls []DialCall
}

var (
	_ tikvbp.RawDialer = (*Dialer)(nil)
	_ tikvbp.TxnDialer = (*Dialer)(nil)
)

// NewDialer creates a Dialer opening clients on store.
func NewDialer(store *Store) *Dialer {
	return &Dialer{store: store}
}

// Calls returns a copy of the recorded calls, in order.
func (d *Dialer) Calls() []DialCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

func (d *Dialer) record(txn bool, endpoints []string, cfg *tikvbp.ClientConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, DialCall{
		Txn:        txn,
		WithConfig: cfg != nil,
		Endpoints:  slices.Clone(endpoints),
		Config:     cfg,
	})
}

// DialRaw implements tikvbp.RawDialer.
func (d *Dialer) DialRaw(ctx context.Context, endpoints []string) (tikvbp.RawClient, error) {
	d.record(false, endpoints, nil)
	return d.dialRaw(ctx)
}

// DialRawWithConfig implements tikvbp.RawDialer.
func (d *Dialer) DialRawWithConfig(ctx context.Context, endpoints []string, cfg tikvbp.ClientConfig) (tikvbp.RawClient, error) {
	d.record(false, endpoints, &cfg)
	return d.dialRaw(ctx)
}

func (d *Dialer) dialRaw(ctx context.Context) (tikvbp.RawClient, error) {
	if err := d.store.dial(ctx); err != nil {
		return nil, err
	}
	return &RawClient{store: d.store}, nil
}

// DialTxn implements tikvbp.TxnDialer.
func (d *Dialer) DialTxn(ctx context.Context, endpoints []string) (tikvbp.TxnClient, error) {
	d.record(true, endpoints, nil)
	return d.dialTxn(ctx)
}

// DialTxnWithConfig implements tikvbp.TxnDialer.
func (d *Dialer) DialTxnWithConfig(ctx context.Context, endpoints []string, cfg tikvbp.ClientConfig) (tikvbp.TxnClient, error) {
	d.record(true, endpoints, &cfg)
	return d.dialTxn(ctx)
}

func (d *Dialer) dialTxn(ctx context.Context) (tikvbp.TxnClient, error) {
	if err := d.store.dial(ctx); err != nil {
		return nil, err
	}
	return &TxnClient{store: d.store}, nil
}
