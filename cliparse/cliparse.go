// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const (
	DefaultPort       = 3318
	DefaultNetwork    = "localnet"
	DefaultAppID      = 1002
	DefaultZKURL      = "http://127.0.0.1:8000"
	DefaultZKTimeout  = 20 * time.Second
	DefaultSessionTTL = 30 * time.Minute
	DefaultSetupSeed  = 42
	DefaultEnvFile    = ".env"

	// ZKDisabled as ZK_URL submits ballots without a proof.
	ZKDisabled = "off"
)

var networks = map[string]bool{"localnet": true, "testnet": true, "mainnet": true}

// DefaultAllowedOrigins admits the board UI served from this machine.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

type Config struct {
	Port          int
	Network       string
	AppID         uint64
	SenderAddress string

	RelayURL   string
	RelayToken string

	PinataJWT          string
	PinataAPIURL       string
	PinataGatewayURL   string
	PinataGatewayToken string

	ZKURL     string
	ZKTimeout time.Duration

	SessionSalt string
	SessionTTL  time.Duration
	SetupSeed   uint64

	AllowedOrigins []string
}

// ProofsEnabled reports whether ballots go through the proof service.
func (c Config) ProofsEnabled() bool {
	return c.ZKURL != "" && !strings.EqualFold(c.ZKURL, ZKDisabled)
}

// ParseFlags validates flags and fills the rest from the environment.
// An env file is loaded first; variables already set are not overridden.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string
	var relayURL, zkURL string

	flags := flag.NewFlagSet("quickly-rank", flag.ContinueOnError)

	flags.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	flags.StringVarP(&cfg.Network, "network", "n", "", "Algorand network (localnet, testnet, mainnet)")
	flags.Uint64Var(&cfg.AppID, "app-id", 0, "Election application ID")
	flags.StringVar(&cfg.SenderAddress, "sender", "", "Voter account address")
	flags.StringVar(&relayURL, "relay-url", "", "Contract relay URL (empty uses the in-memory election)")
	flags.StringVar(&zkURL, "zk-url", "", "Proof service URL, or \"off\"")
	flags.StringVar(&envFile, "env-file", DefaultEnvFile, "Env file to load")
	flags.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", nil, "CORS origins allowed to call the client (comma separated)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.PinataJWT, "pinata-jwt", "", "Pinata JWT (prefer env)")
	flags.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var err error

	if cfg.Port == 0 {
		if cfg.Port, err = envInt("PORT", DefaultPort); err != nil {
			return Config{}, err
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.Network == "" {
		cfg.Network = envOr("ALGOD_NETWORK", DefaultNetwork)
	}
	cfg.Network = strings.ToLower(cfg.Network)
	if !networks[cfg.Network] {
		return Config{}, fmt.Errorf("unknown network %q", cfg.Network)
	}

	if cfg.AppID == 0 {
		if cfg.AppID, err = envUint("APP_ID", DefaultAppID); err != nil {
			return Config{}, err
		}
	}

	if cfg.SenderAddress == "" {
		cfg.SenderAddress = os.Getenv("SENDER_ADDRESS")
	}

	cfg.RelayURL = relayURL
	if cfg.RelayURL == "" {
		cfg.RelayURL = os.Getenv("CONTRACT_RELAY_URL")
	}
	cfg.RelayToken = os.Getenv("CONTRACT_RELAY_TOKEN")

	cfg.PinataAPIURL = os.Getenv("PINATA_API_URL")
	cfg.PinataGatewayURL = os.Getenv("PINATA_GATEWAY_BASE")
	cfg.PinataGatewayToken = os.Getenv("PINATA_GATEWAY_TOKEN")

	cfg.ZKURL = zkURL
	if cfg.ZKURL == "" {
		cfg.ZKURL = envOr("ZK_URL", DefaultZKURL)
	}
	ms, err := envInt("ZK_TIMEOUT_MS", int(DefaultZKTimeout/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	cfg.ZKTimeout = time.Duration(ms) * time.Millisecond

	if cfg.SessionTTL, err = envDuration("SESSION_TTL", DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SetupSeed, err = envUint("SETUP_SEED", DefaultSetupSeed); err != nil {
		return Config{}, err
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = envList("ALLOWED_ORIGINS", DefaultAllowedOrigins)
	}

	// Secrets - MUST be provided
	if cfg.PinataJWT == "" {
		cfg.PinataJWT = os.Getenv("PINATA_JWT")
	}
	if cfg.PinataJWT == "" {
		return Config{}, errors.New("PINATA_JWT required")
	}

	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envUint(key string, def uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
