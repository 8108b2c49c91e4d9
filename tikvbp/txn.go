package tikvbp

import (
	"context"
	"slices"

	"github.com/maestro-org/tikvpool/clientpool"
)

// TransactionalConnectionManager is a clientpool.Manager for TxnClient.
//
// It's immutable after creation and safe for concurrent use.
type TransactionalConnectionManager struct {
	endpoints []string
	config    *ClientConfig
	dialer    TxnDialer
	probe     TxnProbe
}

var _ clientpool.Manager[TxnClient] = (*TransactionalConnectionManager)(nil)

// NewTransactionalConnectionManager creates a new
// TransactionalConnectionManager.
//
// See NewRawConnectionManager for the meaning of the args.
func NewTransactionalConnectionManager[S ~string](endpoints []S, cfg *ClientConfig, opts ...Option) (*TransactionalConnectionManager, error) {
	o := newOptions(opts)
	return &TransactionalConnectionManager{
		endpoints: toStrings(endpoints),
		config:    cfg.clone(),
		dialer:    o.txnDialer,
		probe:     o.txnProbe,
	}, nil
}

// Endpoints returns a copy of the PD endpoints.
func (m *TransactionalConnectionManager) Endpoints() []string {
	return slices.Clone(m.endpoints)
}

// Config returns the client config, and false if there is none.
func (m *TransactionalConnectionManager) Config() (ClientConfig, bool) {
	if m.config == nil {
		return ClientConfig{}, false
	}
	return *m.config.clone(), true
}

// Probe returns the probe used by Validate.
func (m *TransactionalConnectionManager) Probe() TxnProbe {
	return m.probe
}

// Connect implements clientpool.Manager.
func (m *TransactionalConnectionManager) Connect(ctx context.Context) (TxnClient, error) {
	if m.config != nil {
		return m.dialer.DialTxnWithConfig(ctx, slices.Clone(m.endpoints), *m.config)
	}
	return m.dialer.DialTxn(ctx, slices.Clone(m.endpoints))
}

// Validate implements clientpool.Manager.
//
// Depending on the probe it either fetches the current timestamp or begins
// and abandons an optimistic transaction. Errors are returned unchanged.
func (m *TransactionalConnectionManager) Validate(ctx context.Context, c TxnClient) error {
	if m.probe == ProbeBegin {
		txn, err := c.Begin(ctx)
		if err != nil {
			return err
		}
		// Nothing was written, rollback is local.
		_ = txn.Rollback()
		return nil
	}
	_, err := c.CurrentTimestamp(ctx)
	return err
}

// HasBroken implements clientpool.Manager. It always returns false.
func (m *TransactionalConnectionManager) HasBroken(TxnClient) bool {
	return false
}
