package tikvbp

import (
	"context"
	"io"

	"github.com/tikv/client-go/v2/config"
	tikverr "github.com/tikv/client-go/v2/error"
	"github.com/tikv/client-go/v2/rawkv"
	"github.com/tikv/client-go/v2/txnkv"
	"github.com/tikv/client-go/v2/txnkv/transaction"
)

// Re-exported client-go types, so that users of this package don't need to
// import client-go directly for them.
type (
	// Security is the TLS configuration understood by client-go.
	Security = config.Security

	// RawKVClient is the client-go raw client wrapped by RawClient.
	RawKVClient = rawkv.Client

	// TxnKVClient is the client-go transactional client wrapped by TxnClient.
	TxnKVClient = txnkv.Client

	// KVTxn is the client-go transaction returned by TxnClient.Begin.
	KVTxn = transaction.KVTxn
)

// ErrNotExist is returned by Txn.Get when the key does not exist.
var ErrNotExist = tikverr.ErrNotExist

// IsNotFound reports whether err means a missing key.
func IsNotFound(err error) bool {
	return tikverr.IsErrNotFound(err)
}

// RawClient is a connection to TiKV using the raw (non-transactional) API.
//
// Get returns nil value and nil error for missing keys.
type RawClient interface {
	io.Closer

	Get(ctx context.Context, key []byte) ([]byte, error)
	Put(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
}

// TxnClient is a connection to TiKV using the transactional API.
type TxnClient interface {
	io.Closer

	// Begin starts an optimistic transaction.
	//
	// ctx is only checked before starting. The client-go implementation
	// fetches the start timestamp without it.
	Begin(ctx context.Context) (Txn, error)

	// CurrentTimestamp fetches the current timestamp from PD.
	CurrentTimestamp(ctx context.Context) (uint64, error)
}

// Txn is an optimistic transaction. *KVTxn implements it.
type Txn interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Commit(ctx context.Context) error
	Rollback() error
	StartTS() uint64
}

var _ Txn = (*KVTxn)(nil)

// RawDialer opens RawClients.
type RawDialer interface {
	// DialRaw opens a client with client-go defaults.
	DialRaw(ctx context.Context, endpoints []string) (RawClient, error)

	// DialRawWithConfig opens a client configured by cfg.
	DialRawWithConfig(ctx context.Context, endpoints []string, cfg ClientConfig) (RawClient, error)
}

// TxnDialer opens TxnClients.
type TxnDialer interface {
	// DialTxn opens a client with client-go defaults.
	DialTxn(ctx context.Context, endpoints []string) (TxnClient, error)

	// DialTxnWithConfig opens a client configured by cfg.
	DialTxnWithConfig(ctx context.Context, endpoints []string, cfg ClientConfig) (TxnClient, error)
}
