package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blockotchi", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(dir, "blockotchi", "pet.json"), cfg.Store.Path)
	assert.Equal(t, "0.0005", cfg.Payments.CheckInFeeSOL)
	assert.Equal(t, 30, cfg.Feed.PollIntervalSeconds)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
backend = "sqlite"
path = "/tmp/pets.db"
slot = "alice"

[payments]
treasury_address = "Treasury111"
revival_fee_sol = "0.005"

[feed]
poll_interval_seconds = 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "alice", cfg.Store.Slot)
	assert.Equal(t, "Treasury111", cfg.Payments.TreasuryAddress)
	assert.Equal(t, "0.005", cfg.Payments.RevivalFeeSOL)
	assert.Equal(t, "0.001", cfg.Payments.UnlockFeeSOL, "unset keys keep their defaults")
	assert.Equal(t, 60, cfg.Feed.PollIntervalSeconds)

	fees, err := cfg.Fees().Lamports()
	require.NoError(t, err)
	assert.Len(t, fees, 4)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"file\"\npath = \"x\"\nflavour = \"mint\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.flavour")
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"postgres\"\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[payments]\nmint_fee_sol = \"cheap\"\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("BLOCKOTCHI_TREASURY_ADDRESS", "EnvTreasury")
	t.Setenv("BLOCKOTCHI_STORE_BACKEND", "memory")
	t.Setenv("BLOCKOTCHI_POLL_INTERVAL_SECONDS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "EnvTreasury", cfg.Payments.TreasuryAddress)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Feed.PollIntervalSeconds)
}

func TestIntEnv(t *testing.T) {
	t.Setenv("BLOCKOTCHI_TEST_INT", "not-a-number")
	assert.Equal(t, 7, intEnv("BLOCKOTCHI_TEST_INT", 7))
	t.Setenv("BLOCKOTCHI_TEST_INT", " 12 ")
	assert.Equal(t, 12, intEnv("BLOCKOTCHI_TEST_INT", 7))
	assert.Equal(t, 3, intEnv("BLOCKOTCHI_TEST_UNSET", 3))
}
