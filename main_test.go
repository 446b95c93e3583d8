package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockotchi/internal/config"
	"blockotchi/internal/pet"
	"blockotchi/internal/store"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "/tmp/c.toml", "-serve", "-wallet", "Addr1"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.configPath != "/tmp/c.toml" || !opts.serve || opts.wallet != "Addr1" || opts.stats {
		t.Errorf("Expected parsed options, got %+v", opts)
	}

	if _, err := parseFlags([]string{"-serve", "-stats"}); err == nil {
		t.Error("Expected -serve with -stats to fail")
	}
	if _, err := parseFlags([]string{"-bogus"}); err == nil {
		t.Error("Expected unknown flag to fail")
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		closer  bool
		wantErr bool
	}{
		{"memory", config.StoreConfig{Backend: config.BackendMemory}, false, false},
		{"file", config.StoreConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "pet.json")}, false, false},
		{"sqlite", config.StoreConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "pet.db"), Slot: "default"}, true, false},
		{"unknown", config.StoreConfig{Backend: "redis"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, closer, err := openStore(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openStore failed: %v", err)
			}
			if (closer != nil) != tt.closer {
				t.Errorf("Expected closer=%v, got %v", tt.closer, closer != nil)
			}
			if closer != nil {
				defer closer.Close()
			}

			data, err := pet.Encode(pet.NewState(time.Now()))
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if err := st.Save(data); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := st.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(got) != string(data) {
				t.Error("Expected saved snapshot to load back")
			}
		})
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Store.Backend != config.BackendFile {
		t.Errorf("Expected file backend, got %s", cfg.Store.Backend)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to be written: %v", err)
	}
}

func TestRunServeUntilCanceled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[store]
backend = "memory"

[feed]
rpc_endpoint = ""

[server]
listen_address = "127.0.0.1:0"

[log]
file = "` + filepath.ToSlash(filepath.Join(dir, "test.log")) + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := run(ctx, []string{"-config", path, "-serve"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestMemoryStoreType(t *testing.T) {
	st, _, err := openStore(config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("openStore failed: %v", err)
	}
	if _, ok := st.(*store.Memory); !ok {
		t.Errorf("Expected *store.Memory, got %T", st)
	}
}
