// Package config provides configuration loading and validation for stash.
//
// The package handles YAML configuration files, a .env file, environment
// variables, and CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (STASH_ prefix), including those read from ./.env
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with STASH_ prefix:
//   - server.port → STASH_SERVER_PORT
//   - storage.path → STASH_STORAGE_PATH
//   - auth.token → STASH_AUTH_TOKEN (AUTH_TOKEN is also accepted)
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - max_upload_size must be >= 0 (0 disables the cap)
//   - Log level must be debug, info, warn, or error
//   - env must be development, dev, production, prod, or test
package config
