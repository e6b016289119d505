// Package config loads runtime configuration for the MemoryLane client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with a .env file folded in (see parseEnv).
//  3. Optional JSON file selected via -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "400ms" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:4000/api",
//	  "request_timeout": "15s",
//	  "search_debounce": "400ms",
//	  "page_size": 12
//	}
package config
