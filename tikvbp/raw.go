package tikvbp

import (
	"context"
	"slices"

	"github.com/maestro-org/tikvpool/clientpool"
)

// probeKey is read by RawConnectionManager.Validate.
var probeKey = []byte{}

// RawConnectionManager is a clientpool.Manager for RawClient.
//
// It's immutable after creation and safe for concurrent use.
type RawConnectionManager struct {
	endpoints []string
	config    *ClientConfig
	dialer    RawDialer
}

var _ clientpool.Manager[RawClient] = (*RawConnectionManager)(nil)

// NewRawConnectionManager creates a new RawConnectionManager.
//
// endpoints are the PD addresses ("host:port"), cfg is optional.
// Both are copied. No I/O is done, unreachable or malformed endpoints surface
// on the first Connect. The returned error is currently always nil.
func NewRawConnectionManager[S ~string](endpoints []S, cfg *ClientConfig, opts ...Option) (*RawConnectionManager, error) {
	return &RawConnectionManager{
		endpoints: toStrings(endpoints),
		config:    cfg.clone(),
		dialer:    newOptions(opts).rawDialer,
	}, nil
}

// Endpoints returns a copy of the PD endpoints.
func (m *RawConnectionManager) Endpoints() []string {
	return slices.Clone(m.endpoints)
}

// Config returns the client config, and false if there is none.
func (m *RawConnectionManager) Config() (ClientConfig, bool) {
	if m.config == nil {
		return ClientConfig{}, false
	}
	return *m.config.clone(), true
}

// Connect implements clientpool.Manager.
//
// It opens a new RawClient, using the config-aware dialer variant when a
// ClientConfig is set. Dial errors are returned unchanged.
func (m *RawConnectionManager) Connect(ctx context.Context) (RawClient, error) {
	if m.config != nil {
		return m.dialer.DialRawWithConfig(ctx, slices.Clone(m.endpoints), *m.config)
	}
	return m.dialer.DialRaw(ctx, slices.Clone(m.endpoints))
}

// Validate implements clientpool.Manager.
//
// It reads the empty key. A missing key is fine, any other error is returned
// unchanged.
func (m *RawConnectionManager) Validate(ctx context.Context, c RawClient) error {
	if _, err := c.Get(ctx, probeKey); err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

// HasBroken implements clientpool.Manager.
//
// Clients don't expose a local health signal, so it always returns false and
// broken clients are caught by Validate.
func (m *RawConnectionManager) HasBroken(RawClient) bool {
	return false
}

func toStrings[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
