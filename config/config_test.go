package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bridge.yml", `
environment: staging
client:
  name: catalog
  base_url: https://api.example.com/v1
  success_max: 399
  transport:
    timeout: 5s
    protocol: h2
    headers:
      accept: application/json
auth:
  token: tok
tracing:
  enabled: true
  endpoint: collector:4318
  sample_rate: 0.5
`)

	var cfg Config
	if err := Load("bridge", &cfg, WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Client.Name != "catalog" || cfg.Client.BaseURL != "https://api.example.com/v1" {
		t.Errorf("unexpected client config %+v", cfg.Client)
	}
	if cfg.Client.SuccessMax != 399 {
		t.Errorf("expected success_max 399, got %d", cfg.Client.SuccessMax)
	}
	if cfg.Client.Transport.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Client.Transport.Timeout)
	}
	if cfg.Client.Transport.Protocol != "h2" {
		t.Errorf("expected h2, got %q", cfg.Client.Transport.Protocol)
	}
	if cfg.Client.Transport.Headers["accept"] != "application/json" {
		t.Errorf("expected accept header, got %v", cfg.Client.Transport.Headers)
	}
	if cfg.Auth.Token != "tok" {
		t.Errorf("expected token, got %q", cfg.Auth.Token)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "collector:4318" || cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("unexpected tracing config %+v", cfg.Tracing)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bridge.yml", `
client:
  base_url: https://file.example.com
`)
	t.Setenv("BRIDGE_CLIENT_BASE_URL", "https://env.example.com")
	t.Setenv("BRIDGE_CLIENT_TRANSPORT_TIMEOUT", "2s")
	t.Setenv("OTHER_CLIENT_NAME", "ignored")

	var cfg Config
	if err := Load("bridge", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Client.BaseURL != "https://env.example.com" {
		t.Errorf("expected env to win, got %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Transport.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %s", cfg.Client.Transport.Timeout)
	}
	if cfg.Client.Name != "" {
		t.Errorf("variables without the prefix must be ignored, got %q", cfg.Client.Name)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := writeFile(t, t.TempDir(), ".env", "ENVTEST_AUTH_API_KEY=k1\n")
	t.Cleanup(func() { os.Unsetenv("ENVTEST_AUTH_API_KEY") })

	var cfg Config
	if err := Load("envtest", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.APIKey != "k1" {
		t.Errorf("expected api key from .env, got %q", cfg.Auth.APIKey)
	}
}

func TestLoad_CustomPrefix(t *testing.T) {
	t.Setenv("CUSTOM_ENVIRONMENT", "production")
	var cfg Config
	if err := Load("bridge", &cfg, WithEnvPrefix("CUSTOM_"), WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("expected production, got %q", cfg.Environment)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	var cfg Config
	err := Load("bridge", &cfg, WithConfigFile("/nonexistent/bridge.yml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bridge.yml", "client: [unclosed")
	var cfg Config
	if err := Load("bridge", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_NothingFound(t *testing.T) {
	var cfg Config
	if err := Load("bridge", &cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("expected empty config, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
	home  string
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) HomeDir() (string, error)  { return m.home, nil }

func TestResolver(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]bool
		wantCfg string
		wantEnv string
	}{
		{"working dir first", map[string]bool{"./bridge.yml": true, "./config/config.yml": true}, "./bridge.yml", ""},
		{"config dir", map[string]bool{"./config/config.yml": true}, "./config/config.yml", ""},
		{"home", map[string]bool{"/home/u/.bridge.yml": true}, "/home/u/.bridge.yml", ""},
		{"named env first", map[string]bool{"./.env.bridge": true, "./.env": true}, "", "./.env.bridge"},
		{"env in config dir", map[string]bool{"./config/.env": true}, "", "./config/.env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tt.files, home: "/home/u"}}
			got := resolver.ResolveFiles("bridge", LoaderConfig{})
			if got.ConfigFile != tt.wantCfg || got.EnvFile != tt.wantEnv {
				t.Errorf("expected (%q, %q), got (%q, %q)", tt.wantCfg, tt.wantEnv, got.ConfigFile, got.EnvFile)
			}
		})
	}
}

func TestResolver_ExplicitWins(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./bridge.yml": true}}}
	got := resolver.ResolveFiles("bridge", LoaderConfig{ConfigFile: "/etc/b.yml", EnvFile: "/etc/b.env"})
	if got.ConfigFile != "/etc/b.yml" || got.EnvFile != "/etc/b.env" {
		t.Errorf("expected explicit paths, got %+v", got)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("CLIENT_BASE_URL")
	for _, want := range []string{"client_base_url", "client.base.url", "client.base_url", "client_base.url"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("DEBUG"); len(got) != 1 || got[0] != "debug" {
		t.Errorf("expected single variant, got %v", got)
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := envPrefix("my-client"); got != "MY_CLIENT_" {
		t.Errorf("expected MY_CLIENT_, got %q", got)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Auth: AuthConfig{APIKey: "k"}}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.Client.Debug {
		t.Error("debug mode must stay opt-in")
	}
	if cfg.Auth.APIKeyHeader != "X-API-Key" {
		t.Errorf("expected default api key header, got %q", cfg.Auth.APIKeyHeader)
	}
	if cfg.Tracing.ServiceName != "bridge" || cfg.Tracing.Environment != "development" {
		t.Errorf("unexpected tracing defaults %+v", cfg.Tracing)
	}
	if cfg.Client.SuccessMin != 200 || cfg.Client.SuccessMax != 299 {
		t.Errorf("expected client defaults, got %d-%d", cfg.Client.SuccessMin, cfg.Client.SuccessMax)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
		{"bad sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"bad client", func(c *Config) { c.Client.BaseURL = "not a url" }, "client"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthConfig_Enabled(t *testing.T) {
	if (AuthConfig{}).Enabled() {
		t.Error("empty auth should be disabled")
	}
	if !(AuthConfig{Token: "t"}).Enabled() {
		t.Error("token should enable auth")
	}
}
