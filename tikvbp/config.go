package tikvbp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/maestro-org/tikvpool/clientpool"
	"github.com/maestro-org/tikvpool/log"
)

// ClientConfig configures the clients opened by the connection managers.
// A nil *ClientConfig means client-go defaults.
//
// Can be deserialized from YAML.
type ClientConfig struct {
	Security SecurityConfig `yaml:"security"`

	// Timeout bounds each RawClient request and TxnClient.CurrentTimestamp.
	// TxnClient.Begin and the operations of a Txn don't use it.
	// 0 means no timeout other than the one on the request context.
	Timeout time.Duration `yaml:"timeout"`
}

// SecurityConfig holds the paths of the TLS files used to talk to PD and
// TiKV. Leave all empty for plaintext.
//
// Can be deserialized from YAML.
type SecurityConfig struct {
	CAPath   string `yaml:"caPath"`
	CertPath string `yaml:"certPath"`
	KeyPath  string `yaml:"keyPath"`

	// VerifyCN is the list of allowed common names of the peers.
	VerifyCN []string `yaml:"verifyCN"`
}

// Security converts cfg into the client-go representation.
func (cfg SecurityConfig) Security() Security {
	return Security{
		ClusterSSLCA:    cfg.CAPath,
		ClusterSSLCert:  cfg.CertPath,
		ClusterSSLKey:   cfg.KeyPath,
		ClusterVerifyCN: slices.Clone(cfg.VerifyCN),
	}
}

func (cfg *ClientConfig) clone() *ClientConfig {
	if cfg == nil {
		return nil
	}
	c := *cfg
	c.Security.VerifyCN = slices.Clone(cfg.Security.VerifyCN)
	return &c
}

// PoolConfig is the configuration for NewRawPool and NewTxnPool.
//
// Can be deserialized from YAML:
//
//	endpoints:
//	  - pd-0:2379
//	  - pd-1:2379
//	client:
//	  timeout: 2s
//	pool:
//	  maxConnections: 10
type PoolConfig struct {
	// Endpoints are the PD addresses in the format "host:port".
	Endpoints []string `yaml:"endpoints"`

	// Client is optional.
	Client *ClientConfig `yaml:"client"`

	Pool clientpool.Config `yaml:"pool"`
}

// ParsePoolConfig parses a PoolConfig from YAML read from r.
//
// Environment variables (e.g. $FOO and ${FOO}) are substituted before
// parsing, and unknown fields are rejected.
func ParsePoolConfig(r io.Reader) (PoolConfig, error) {
	var cfg PoolConfig
	raw, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("tikvbp: reading pool config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	dec.SetStrict(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("tikvbp: parsing pool config: %w", err)
	}

	if log.With().Desugar().Core().Enabled(zap.DebugLevel) {
		// Unexpanded, environment values must not end up in logs.
		log.Debugf("tikvbp: parsed pool config:\n%s", raw)
	}
	return cfg, nil
}

// LoadPoolConfig parses a PoolConfig from the YAML file at path.
func LoadPoolConfig(path string) (PoolConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return PoolConfig{}, err // contains filename
	}
	defer f.Close()
	return ParsePoolConfig(f)
}
