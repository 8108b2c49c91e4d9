package tikvbp_test

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/maestro-org/tikvpool/tikvbp"
)

var errProbe = errors.New("probe failed")

// stubRawClient answers every Get with err.
type stubRawClient struct {
	err   error
	calls atomic.Int32
}

func (c *stubRawClient) Get(ctx context.Context, key []byte) ([]byte, error) {
	c.calls.Add(1)
	return nil, c.err
}

func (c *stubRawClient) Put(ctx context.Context, key, value []byte) error { return nil }

func (c *stubRawClient) Delete(ctx context.Context, key []byte) error { return nil }

func (c *stubRawClient) Close() error { return nil }

// stubTxnClient answers every Begin and CurrentTimestamp with err.
type stubTxnClient struct {
	err         error
	begins      atomic.Int32
	timestamps  atomic.Int32
	rollbackErr error
}

func (c *stubTxnClient) Begin(ctx context.Context) (tikvbp.Txn, error) {
	c.begins.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &stubTxn{rollbackErr: c.rollbackErr}, nil
}

func (c *stubTxnClient) CurrentTimestamp(ctx context.Context) (uint64, error) {
	c.timestamps.Add(1)
	return 1, c.err
}

func (c *stubTxnClient) Close() error { return nil }

type stubTxn struct {
	rollbackErr error
	rolledBack  bool
}

func (t *stubTxn) Get(ctx context.Context, key []byte) ([]byte, error) { return nil, tikvbp.ErrNotExist }

func (t *stubTxn) Set(key, value []byte) error { return nil }

func (t *stubTxn) Delete(key []byte) error { return nil }

func (t *stubTxn) Commit(ctx context.Context) error { return nil }

func (t *stubTxn) Rollback() error {
	t.rolledBack = true
	return t.rollbackErr
}

func (t *stubTxn) StartTS() uint64 { return 1 }
