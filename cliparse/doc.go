// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p, --port          Server port (default: 3318)
	-n, --network       localnet, testnet or mainnet (default: localnet)
	--app-id            Election application ID (default: 1002)
	--sender            Voter account address
	--relay-url         Contract relay URL
	--zk-url            Proof service URL, or "off"
	--env-file          Env file to load (default: .env)
	--pinata-jwt        Pinata JWT
	--session-salt      Session token salt

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	ALGOD_NETWORK        → -n
	APP_ID               → --app-id
	SENDER_ADDRESS       → --sender
	CONTRACT_RELAY_URL   → --relay-url
	ZK_URL               → --zk-url
	PINATA_JWT           → --pinata-jwt
	SESSION_SALT         → --session-salt
	ALLOWED_ORIGINS      → --allowed-origins (default http://localhost:*, http://127.0.0.1:*)

Some settings are environment only: CONTRACT_RELAY_TOKEN, PINATA_API_URL,
PINATA_GATEWAY_BASE, PINATA_GATEWAY_TOKEN, ZK_TIMEOUT_MS (default 20000),
SESSION_TTL (default 30m) and SETUP_SEED (default 42).

CLI flags take precedence over environment variables, and variables already
in the environment take precedence over the env file.

# Validation

ParseFlags returns an error if PINATA_JWT or SESSION_SALT is missing, or if
a numeric or duration value does not parse.
*/
package cliparse
