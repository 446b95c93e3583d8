package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"blockotchi/internal/payment"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the on-disk config.toml.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Payments PaymentsConfig `toml:"payments"`
	Feed     FeedConfig     `toml:"feed"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// StoreConfig selects where the pet snapshot is kept.
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Slot    string `toml:"slot"`
}

// PaymentsConfig holds the treasury and the fees in SOL.
type PaymentsConfig struct {
	TreasuryAddress string `toml:"treasury_address"`
	CheckInFeeSOL   string `toml:"checkin_fee_sol"`
	UnlockFeeSOL    string `toml:"unlock_fee_sol"`
	RevivalFeeSOL   string `toml:"revival_fee_sol"`
	MintFeeSOL      string `toml:"mint_fee_sol"`
}

// FeedConfig configures the wallet activity feed.
type FeedConfig struct {
	RPCEndpoint         string  `toml:"rpc_endpoint"`
	PollIntervalSeconds int     `toml:"poll_interval_seconds"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
	WalletAddress       string  `toml:"wallet_address"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddress string `toml:"listen_address"`
}

// LogConfig configures log output.
type LogConfig struct {
	File      string `toml:"file"`
	Env       string `toml:"env"`
	MaxSizeMB int    `toml:"max_size_mb"`
}

// DefaultPath returns ~/.config/blockotchi/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "blockotchi", "config.toml"), nil
}

// Default returns the configuration written on first run. Paths are relative
// to dir.
func Default(dir string) *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(dir, "pet.json"),
		},
		Payments: PaymentsConfig{
			CheckInFeeSOL: payment.DefaultFees.CheckIn,
			UnlockFeeSOL:  payment.DefaultFees.GameUnlock,
			RevivalFeeSOL: payment.DefaultFees.Revival,
			MintFeeSOL:    payment.DefaultFees.NFTMint,
		},
		Feed: FeedConfig{
			RPCEndpoint:         "https://api.devnet.solana.com",
			PollIntervalSeconds: 30,
			RequestsPerSecond:   2,
		},
		Server: ServerConfig{
			ListenAddress: "127.0.0.1:8787",
		},
		Log: LogConfig{
			File:      filepath.Join(dir, "blockotchi.log"),
			MaxSizeMB: 10,
		},
	}
}

// Load loads the configuration from the given path, creating it with defaults
// when it does not exist, then applies BLOCKOTCHI_* environment overrides.
func Load(path string) (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg, err = createDefault(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = Default(filepath.Dir(path))
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend != BackendMemory && c.Store.Path == "" {
		return fmt.Errorf("store path is required for the %s backend", c.Store.Backend)
	}
	if c.Feed.PollIntervalSeconds <= 0 {
		return fmt.Errorf("feed poll interval must be positive, got %d", c.Feed.PollIntervalSeconds)
	}
	if _, err := c.Fees().Lamports(); err != nil {
		return fmt.Errorf("invalid fees: %w", err)
	}
	return nil
}

// Fees returns the configured payment fees.
func (c *Config) Fees() payment.Fees {
	return payment.Fees{
		CheckIn:    c.Payments.CheckInFeeSOL,
		GameUnlock: c.Payments.UnlockFeeSOL,
		Revival:    c.Payments.RevivalFeeSOL,
		NFTMint:    c.Payments.MintFeeSOL,
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func applyEnv(cfg *Config) {
	cfg.Store.Backend = stringEnv("BLOCKOTCHI_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Path = stringEnv("BLOCKOTCHI_STORE_PATH", cfg.Store.Path)
	cfg.Store.Slot = stringEnv("BLOCKOTCHI_STORE_SLOT", cfg.Store.Slot)
	cfg.Payments.TreasuryAddress = stringEnv("BLOCKOTCHI_TREASURY_ADDRESS", cfg.Payments.TreasuryAddress)
	cfg.Payments.CheckInFeeSOL = stringEnv("BLOCKOTCHI_CHECKIN_FEE_SOL", cfg.Payments.CheckInFeeSOL)
	cfg.Payments.UnlockFeeSOL = stringEnv("BLOCKOTCHI_UNLOCK_FEE_SOL", cfg.Payments.UnlockFeeSOL)
	cfg.Payments.RevivalFeeSOL = stringEnv("BLOCKOTCHI_REVIVAL_FEE_SOL", cfg.Payments.RevivalFeeSOL)
	cfg.Payments.MintFeeSOL = stringEnv("BLOCKOTCHI_MINT_FEE_SOL", cfg.Payments.MintFeeSOL)
	cfg.Feed.RPCEndpoint = stringEnv("BLOCKOTCHI_RPC_ENDPOINT", cfg.Feed.RPCEndpoint)
	cfg.Feed.PollIntervalSeconds = intEnv("BLOCKOTCHI_POLL_INTERVAL_SECONDS", cfg.Feed.PollIntervalSeconds)
	cfg.Feed.WalletAddress = stringEnv("BLOCKOTCHI_WALLET_ADDRESS", cfg.Feed.WalletAddress)
	cfg.Server.ListenAddress = stringEnv("BLOCKOTCHI_LISTEN_ADDRESS", cfg.Server.ListenAddress)
	cfg.Log.File = stringEnv("BLOCKOTCHI_LOG_FILE", cfg.Log.File)
	cfg.Log.Env = stringEnv("BLOCKOTCHI_ENV", cfg.Log.Env)
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
