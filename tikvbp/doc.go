// Package tikvbp provides clientpool Managers for TiKV clients.
//
// RawConnectionManager manages raw (non-transactional) clients and
// TransactionalConnectionManager manages transactional ones. Both open
// clients from a list of PD endpoints and an optional ClientConfig, check
// pooled clients with one cheap round trip, and never report a client as
// broken on their own. Errors from client-go are passed through unchanged.
//
// The package re-exports the client-go types its API exposes, so most users
// only need to import tikvbp and clientpool:
//
//	pool, err := tikvbp.NewRawPool(ctx, tikvbp.PoolConfig{
//		Endpoints: []string{"127.0.0.1:2379"},
//		Pool:      clientpool.Config{MaxConnections: 10},
//	})
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	client, err := pool.Get(ctx)
//	if err != nil {
//		return err
//	}
//	defer pool.Release(client)
//	value, err := client.Get(ctx, []byte("key"))
package tikvbp
