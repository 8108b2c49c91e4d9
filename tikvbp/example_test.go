package tikvbp_test

import (
	"context"
	"fmt"

	"github.com/maestro-org/tikvpool/clientpool"
	"github.com/maestro-org/tikvpool/log"
	"github.com/maestro-org/tikvpool/tikvbp"
	"github.com/maestro-org/tikvpool/tikvbp/tikvtest"
)

// This example demonstrates using a pool of raw clients.
//
// In real code the dialer option is left out, so the pool connects to the PD
// endpoints with client-go.
func ExampleNewRawPool() {
	ctx := context.Background()
	pool, err := tikvbp.NewRawPool(
		ctx,
		tikvbp.PoolConfig{
			Endpoints: []string{"127.0.0.1:2379"},
			Pool:      clientpool.Config{MaxConnections: 10},
		},
		tikvbp.WithRawDialer(tikvtest.NewDialer(tikvtest.NewStore())),
	)
	if err != nil {
		log.Errorw("Failed to create pool", "err", err)
		return
	}
	defer pool.Close()

	client, err := pool.Get(ctx)
	if err != nil {
		log.Errorw("Failed to get client", "err", err)
		return
	}
	defer func() {
		if err := pool.Release(client); err != nil {
			log.Errorw("Failed to release client", "err", err)
		}
	}()

	if err := client.Put(ctx, []byte("TEST"), []byte("111")); err != nil {
		log.Errorw("Put failed", "err", err)
		return
	}
	value, err := client.Get(ctx, []byte("TEST"))
	if err != nil {
		log.Errorw("Get failed", "err", err)
		return
	}
	fmt.Println(string(value))
	// Output:
	// 111
}

// This example demonstrates a transactional pool whose clients are validated
// by beginning a transaction instead of fetching a timestamp.
func ExampleNewTxnPool() {
	ctx := context.Background()
	pool, err := tikvbp.NewTxnPool(
		ctx,
		tikvbp.PoolConfig{
			Endpoints: []string{"127.0.0.1:2379"},
			Pool:      clientpool.Config{MaxConnections: 10},
		},
		tikvbp.WithTxnProbe(tikvbp.ProbeBegin),
		tikvbp.WithTxnDialer(tikvtest.NewDialer(tikvtest.NewStore())),
	)
	if err != nil {
		log.Errorw("Failed to create pool", "err", err)
		return
	}
	defer pool.Close()

	client, err := pool.Get(ctx)
	if err != nil {
		log.Errorw("Failed to get client", "err", err)
		return
	}
	defer pool.Release(client)

	txn, err := client.Begin(ctx)
	if err != nil {
		log.Errorw("Begin failed", "err", err)
		return
	}
	txn.Set([]byte("TEST"), []byte("111"))
	value, err := txn.Get(ctx, []byte("TEST"))
	if err != nil {
		log.Errorw("Get failed", "err", err)
		txn.Rollback()
		return
	}
	if err := txn.Commit(ctx); err != nil {
		log.Errorw("Commit failed", "err", err)
		return
	}
	fmt.Println(string(value))
	// Output:
	// 111
}
