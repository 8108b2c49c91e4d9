package tikvbp

import (
	"context"
	"sync"
	"time"

	"github.com/tikv/client-go/v2/config"
	"github.com/tikv/client-go/v2/rawkv"
	"github.com/tikv/client-go/v2/txnkv"
)

// DefaultDialer opens clients with client-go.
//
// Errors from client-go are returned as-is.
type DefaultDialer struct{}

var (
	_ RawDialer = DefaultDialer{}
	_ TxnDialer = DefaultDialer{}
)

// txnkv.NewClient reads its security settings from the client-go global
// config, so dialing transactional clients is serialized.
var globalConfigLock sync.Mutex

// DialRaw implements RawDialer.
func (DefaultDialer) DialRaw(ctx context.Context, endpoints []string) (RawClient, error) {
	c, err := rawkv.NewClient(ctx, endpoints, config.Security{})
	if err != nil {
		return nil, err
	}
	return &rawClient{client: c}, nil
}

// DialRawWithConfig implements RawDialer.
func (DefaultDialer) DialRawWithConfig(ctx context.Context, endpoints []string, cfg ClientConfig) (RawClient, error) {
	c, err := rawkv.NewClient(ctx, endpoints, cfg.Security.Security())
	if err != nil {
		return nil, err
	}
	return &rawClient{client: c, timeout: cfg.Timeout}, nil
}

// DialTxn implements TxnDialer.
func (DefaultDialer) DialTxn(ctx context.Context, endpoints []string) (TxnClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	globalConfigLock.Lock()
	defer globalConfigLock.Unlock()

	c, err := txnkv.NewClient(endpoints)
	if err != nil {
		return nil, err
	}
	return &txnClient{client: c}, nil
}

// DialTxnWithConfig implements TxnDialer.
func (DefaultDialer) DialTxnWithConfig(ctx context.Context, endpoints []string, cfg ClientConfig) (TxnClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	globalConfigLock.Lock()
	defer globalConfigLock.Unlock()

	restore := config.UpdateGlobal(func(conf *config.Config) {
		conf.Security = cfg.Security.Security()
	})
	defer restore()

	c, err := txnkv.NewClient(endpoints)
	if err != nil {
		return nil, err
	}
	return &txnClient{client: c, timeout: cfg.Timeout}, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

type rawClient struct {
	client  *rawkv.Client
	timeout time.Duration
}

func (c *rawClient) Get(ctx context.Context, key []byte) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Get(ctx, key)
}

func (c *rawClient) Put(ctx context.Context, key, value []byte) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Put(ctx, key, value)
}

func (c *rawClient) Delete(ctx context.Context, key []byte) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Delete(ctx, key)
}

func (c *rawClient) Close() error {
	return c.client.Close()
}

type txnClient struct {
	client  *txnkv.Client
	timeout time.Duration
}

func (c *txnClient) Begin(ctx context.Context) (Txn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	txn, err := c.client.Begin()
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (c *txnClient) CurrentTimestamp(ctx context.Context) (uint64, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.GetTimestamp(ctx)
}

func (c *txnClient) Close() error {
	return c.client.Close()
}

// UnwrapRaw returns the client-go client behind a RawClient opened by
// DefaultDialer, and false for any other RawClient.
func UnwrapRaw(c RawClient) (*RawKVClient, bool) {
	rc, ok := c.(*rawClient)
	if !ok {
		return nil, false
	}
	return rc.client, true
}

// UnwrapTxn returns the client-go client behind a TxnClient opened by
// DefaultDialer, and false for any other TxnClient.
func UnwrapTxn(c TxnClient) (*TxnKVClient, bool) {
	tc, ok := c.(*txnClient)
	if !ok {
		return nil, false
	}
	return tc.client, true
}
