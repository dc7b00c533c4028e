// Package config provides configuration loading and validation for Sentinel Core.
//
// Configuration is loaded in three layers, each overriding the last:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. YAML file (configs/config.yaml by default)
//  3. Environment variables (SENTINEL_* prefix)
//
// The environment layer exists so secrets (JWT signing key, telemetry
// token) never have to live in the YAML file. Validation aggregates all
// errors into a single message so operators can fix everything in one
// pass rather than playing whack-a-mole.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
