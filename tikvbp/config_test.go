package tikvbp_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/maestro-org/tikvpool/clientpool"
	"github.com/maestro-org/tikvpool/log"
	"github.com/maestro-org/tikvpool/tikvbp"
)

const rawPoolConfig = `
endpoints:
  - ${PD_HOST}:2379
  - pd-1:2379
client:
  timeout: 2s
  security:
    caPath: /etc/tikv/ca.pem
    certPath: /etc/tikv/client.pem
    keyPath: /etc/tikv/client-key.pem
    verifyCN:
      - tikv
pool:
  name: orders
  minConnections: 1
  maxConnections: 10
  connectAttempts: 3
  connectRetryDelay: 10ms
  breaker:
    minRequestsToTrip: 5
    failureThreshold: 0.5
    timeout: 1s
`

func TestParsePoolConfig(t *testing.T) {
	t.Setenv("PD_HOST", "pd-0")

	expected := tikvbp.PoolConfig{
		Endpoints: []string{"pd-0:2379", "pd-1:2379"},
		Client: &tikvbp.ClientConfig{
			Timeout: 2 * time.Second,
			Security: tikvbp.SecurityConfig{
				CAPath:   "/etc/tikv/ca.pem",
				CertPath: "/etc/tikv/client.pem",
				KeyPath:  "/etc/tikv/client-key.pem",
				VerifyCN: []string{"tikv"},
			},
		},
		Pool: clientpool.Config{
			Name:              "orders",
			MinConnections:    1,
			MaxConnections:    10,
			ConnectAttempts:   3,
			ConnectRetryDelay: 10 * time.Millisecond,
			Breaker: &clientpool.BreakerConfig{
				MinRequestsToTrip: 5,
				FailureThreshold:  0.5,
				Timeout:           time.Second,
			},
		},
	}

	t.Run(
		"reader",
		func(t *testing.T) {
			cfg, err := tikvbp.ParsePoolConfig(strings.NewReader(rawPoolConfig))
			if err != nil {
				t.Fatalf("ParsePoolConfig returned error: %v", err)
			}
			if diff := cmp.Diff(expected, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		},
	)

	t.Run(
		"file",
		func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tikv.yaml")
			if err := os.WriteFile(path, []byte(rawPoolConfig), 0o600); err != nil {
				t.Fatal(err)
			}
			cfg, err := tikvbp.LoadPoolConfig(path)
			if err != nil {
				t.Fatalf("LoadPoolConfig returned error: %v", err)
			}
			if diff := cmp.Diff(expected, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		},
	)
}

func TestParsePoolConfigErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		raw  string
	}{
		{
			name: "unknown-field",
			raw: `
endpoint: pd:2379
`,
		},
		{
			name: "bad-duration",
			raw: `
client:
  timeout: soon
`,
		},
	} {
		t.Run(
			c.name,
			func(t *testing.T) {
				if _, err := tikvbp.ParsePoolConfig(strings.NewReader(c.raw)); err == nil {
					t.Error("ParsePoolConfig expected error, got nil")
				}
			},
		)
	}

	if _, err := tikvbp.LoadPoolConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadPoolConfig on missing file expected error, got nil")
	}
}

func TestSecurityConfig(t *testing.T) {
	cfg := tikvbp.SecurityConfig{
		CAPath:   "ca",
		CertPath: "cert",
		KeyPath:  "key",
		VerifyCN: []string{"a", "b"},
	}
	got := cfg.Security()
	want := tikvbp.Security{
		ClusterSSLCA:    "ca",
		ClusterSSLCert:  "cert",
		ClusterSSLKey:   "key",
		ClusterVerifyCN: []string{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Security() mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePoolConfigDebugLog(t *testing.T) {
	t.Setenv("PD_HOST", "pd-secret-host")
	core, logs := observer.New(zapcore.DebugLevel)
	log.SetLogger(zap.New(core))
	t.Cleanup(func() {
		log.SetLogger(nil)
	})

	if _, err := tikvbp.ParsePoolConfig(strings.NewReader(rawPoolConfig)); err != nil {
		t.Fatal(err)
	}

	entries := logs.AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	msg := entries[0].Message
	if strings.Contains(msg, "pd-secret-host") {
		t.Errorf("environment value leaked into log: %q", msg)
	}
	if !strings.Contains(msg, "${PD_HOST}") {
		t.Errorf("expected unexpanded config in log, got %q", msg)
	}
}
