package tikvbp

// TxnProbe selects the round trip TransactionalConnectionManager.Validate
// makes.
type TxnProbe int

const (
	// ProbeTimestamp fetches the current timestamp from PD.
	// No transaction state is left behind.
	ProbeTimestamp TxnProbe = iota

	// ProbeBegin begins an optimistic transaction and abandons it.
	// client-go fetches the start timestamp without a context, so this probe
	// ignores both ClientConfig.Timeout and the deadline of the Validate ctx.
	ProbeBegin
)

func (p TxnProbe) String() string {
	switch p {
	case ProbeTimestamp:
		return "timestamp"
	case ProbeBegin:
		return "begin"
	default:
		return "unknown"
	}
}

type options struct {
	rawDialer RawDialer
	txnDialer TxnDialer
	txnProbe  TxnProbe
}

func newOptions(opts []Option) options {
	o := options{
		rawDialer: DefaultDialer{},
		txnDialer: DefaultDialer{},
		txnProbe:  ProbeTimestamp,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option customizes the connection managers.
//
// Options that don't apply to a manager are ignored by it.
type Option func(*options)

// WithRawDialer replaces DefaultDialer for RawConnectionManager.
func WithRawDialer(d RawDialer) Option {
	return func(o *options) {
		o.rawDialer = d
	}
}

// WithTxnDialer replaces DefaultDialer for TransactionalConnectionManager.
func WithTxnDialer(d TxnDialer) Option {
	return func(o *options) {
		o.txnDialer = d
	}
}

// WithTxnProbe sets the validation probe of TransactionalConnectionManager.
func WithTxnProbe(p TxnProbe) Option {
	return func(o *options) {
		o.txnProbe = p
	}
}
