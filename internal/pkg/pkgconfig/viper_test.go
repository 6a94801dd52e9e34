package pkgconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestViperConfigValues(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address:
    http: ":8080"
upload:
  max_bytes: 1048576
dashboard:
  preview_rows: 10
chart:
  enabled: true
  ratio: 0.5
app:
  secret_key: c2VjcmV0
allowed: "csv, tsv ,"
labels: "env:dev, team:data"
`)

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	defer func() {
		if err := cfg.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if got := cfg.GetString("server.address.http"); got != ":8080" {
		t.Fatalf("GetString: expected :8080, got %q", got)
	}
	if got := cfg.GetInt("upload.max_bytes"); got != 1048576 {
		t.Fatalf("GetInt: expected 1048576, got %d", got)
	}
	if got := cfg.GetBool("chart.enabled"); !got {
		t.Fatalf("GetBool: expected true, got %v", got)
	}
	if got := cfg.GetFloat("chart.ratio"); got != 0.5 {
		t.Fatalf("GetFloat: expected 0.5, got %v", got)
	}
	if got := string(cfg.GetBinary("app.secret_key")); got != "secret" {
		t.Fatalf("GetBinary: expected secret, got %q", got)
	}
	if got := cfg.GetArray("allowed"); !reflect.DeepEqual(got, []string{"csv", "tsv"}) {
		t.Fatalf("GetArray: unexpected value: %#v", got)
	}
	if got := cfg.GetMap("labels"); !reflect.DeepEqual(got, map[string]string{"env": "dev", "team": "data"}) {
		t.Fatalf("GetMap: unexpected value: %#v", got)
	}
}

func TestViperEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "storage:\n  upload_dir: ./uploads\n")
	t.Setenv("GODASH_STORAGE_UPLOAD_DIR", "/var/lib/godash/uploads")

	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetString("storage.upload_dir"); got != "/var/lib/godash/uploads" {
		t.Fatalf("expected env override, got %q", got)
	}
}

func TestViperGetBinaryInvalid(t *testing.T) {
	path := writeConfigFile(t, "binary: not-base64\n")
	cfg, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}

	if got := cfg.GetBinary("binary"); got != nil {
		t.Fatalf("expected nil for invalid base64, got %v", got)
	}
	if got := cfg.GetBinary("missing"); got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}

func TestNewViperMissingFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
