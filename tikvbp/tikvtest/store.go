// Package tikvtest provides an in-memory stand-in for a TiKV cluster,
// and dialers that record how tikvbp managers open clients.
package tikvtest

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/maestro-org/tikvpool/tikvbp"
)

var (
	// ErrUnreachable is the default error returned while the store is down.
	ErrUnreachable = errors.New("tikvtest: pd server unreachable")

	// ErrClosed is returned by clients after Close.
	ErrClosed = errors.New("tikvtest: client closed")

	// ErrWriteConflict is returned by Txn.Commit when another transaction
	// committed one of its keys after it started.
	ErrWriteConflict = errors.New("tikvtest: write conflict")

	// ErrTxnDone is returned when using a committed or rolled back Txn.
	ErrTxnDone = errors.New("tikvtest: transaction already finished")
)

type entry struct {
	value    []byte
	commitTS uint64
}

// Store is an in-memory key-value store shared by all clients dialed from it.
//
// The zero value is not usable, use NewStore.
type Store struct {
	mu      sync.Mutex
	data    map[string]entry
	ts      uint64
	failure error

	roundTrips atomic.Int64
	dials      atomic.Int64
}

// NewStore creates an empty, reachable Store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
	}
}

// SetFailure makes every dial and round trip fail with err until it's called
// again with nil.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = err
}

// RoundTrips returns the number of requests clients have sent to the store.
func (s *Store) RoundTrips() int64 {
	return s.roundTrips.Load()
}

// Dials returns the number of clients opened, including failed attempts.
func (s *Store) Dials() int64 {
	return s.dials.Load()
}

func (s *Store) dial(ctx context.Context) error {
	s.dials.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

func (s *Store) roundTrip(ctx context.Context) error {
	s.roundTrips.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// nextTS must be called with s.mu held.
func (s *Store) nextTS() uint64 {
	s.ts++
	return s.ts
}

func (s *Store) get(key []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[string(key)]
	if !ok {
		return nil, false
	}
	return slices.Clone(e.value), true
}

func (s *Store) put(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = entry{
		value:    slices.Clone(value),
		commitTS: s.nextTS(),
	}
}

func (s *Store) delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
}

func (s *Store) timestamp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextTS()
}

// commit applies writes atomically, failing with ErrWriteConflict if any of
// the keys was committed after startTS.
func (s *Store) commit(startTS uint64, writes map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range writes {
		if e, ok := s.data[k]; ok && e.commitTS > startTS {
			return ErrWriteConflict
		}
	}
	commitTS := s.nextTS()
	for k, v := range writes {
		if v == nil {
			delete(s.data, k)
			continue
		}
		s.data[k] = entry{
			value:    v,
			commitTS: commitTS,
		}
	}
	return nil
}

// RawClient is a tikvbp.RawClient backed by a Store.
type RawClient struct {
	store  *Store
	closed atomic.Bool
}

var _ tikvbp.RawClient = (*RawClient)(nil)

// Get implements tikvbp.RawClient.
func (c *RawClient) Get(ctx context.Context, key []byte) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := c.store.roundTrip(ctx); err != nil {
		return nil, err
	}
	value, _ := c.store.get(key)
	return value, nil
}

// Put implements tikvbp.RawClient.
func (c *RawClient) Put(ctx context.Context, key, value []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.store.roundTrip(ctx); err != nil {
		return err
	}
	c.store.put(key, value)
	return nil
}

// Delete implements tikvbp.RawClient.
func (c *RawClient) Delete(ctx context.Context, key []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.store.roundTrip(ctx); err != nil {
		return err
	}
	c.store.delete(key)
	return nil
}

// Close implements io.Closer.
func (c *RawClient) Close() error {
	c.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (c *RawClient) Closed() bool {
	return c.closed.Load()
}

// TxnClient is a tikvbp.TxnClient backed by a Store.
type TxnClient struct {
	store  *Store
	closed atomic.Bool
}

var _ tikvbp.TxnClient = (*TxnClient)(nil)

// Begin implements tikvbp.TxnClient.
func (c *TxnClient) Begin(ctx context.Context) (tikvbp.Txn, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := c.store.roundTrip(ctx); err != nil {
		return nil, err
	}
	return &Txn{
		store:   c.store,
		startTS: c.store.timestamp(),
		writes:  make(map[string][]byte),
	}, nil
}

// CurrentTimestamp implements tikvbp.TxnClient.
func (c *TxnClient) CurrentTimestamp(ctx context.Context) (uint64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	if err := c.store.roundTrip(ctx); err != nil {
		return 0, err
	}
	return c.store.timestamp(), nil
}

// Close implements io.Closer.
func (c *TxnClient) Close() error {
	c.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (c *TxnClient) Closed() bool {
	return c.closed.Load()
}

// Txn is an optimistic transaction on a Store.
//
// Writes are buffered until Commit. Not safe for concurrent use.
type Txn struct {
	store   *Store
	startTS uint64
	writes  map[string][]byte
	done    bool
}

var _ tikvbp.Txn = (*Txn)(nil)

// Get returns the value of key, tikvbp.ErrNotExist when it's missing.
func (t *Txn) Get(ctx context.Context, key []byte) ([]byte, error) {
	if t.done {
		return nil, ErrTxnDone
	}
	if v, ok := t.writes[string(key)]; ok {
		if v == nil {
			return nil, tikvbp.ErrNotExist
		}
		return slices.Clone(v), nil
	}
	if err := t.store.roundTrip(ctx); err != nil {
		return nil, err
	}
	v, ok := t.store.get(key)
	if !ok {
		return nil, tikvbp.ErrNotExist
	}
	return v, nil
}

// Set buffers a write.
func (t *Txn) Set(key, value []byte) error {
	if t.done {
		return ErrTxnDone
	}
	if value == nil {
		value = []byte{}
	}
	t.writes[string(key)] = slices.Clone(value)
	return nil
}

// Delete buffers a deletion.
func (t *Txn) Delete(key []byte) error {
	if t.done {
		return ErrTxnDone
	}
	t.writes[string(key)] = nil
	return nil
}

// Commit applies the buffered writes.
func (t *Txn) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	if len(t.writes) == 0 {
		return nil
	}
	if err := t.store.roundTrip(ctx); err != nil {
		return err
	}
	return t.store.commit(t.startTS, t.writes)
}

// Rollback discards the buffered writes.
func (t *Txn) Rollback() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	t.writes = nil
	return nil
}

// StartTS returns the start timestamp of the transaction.
func (t *Txn) StartTS() uint64 {
	return t.startTS
}
