// Package config loads runtime configuration for the Launchpad CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and LAUNCHPAD_* environment
//     variables; real environment variables win over the file.
//  3. Optional JSON file selected with -c or -config. Comments and trailing
//     commas are allowed.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. http://127.0.0.1:8000
//	-t int      request timeout (seconds)
//	-d string   path of the local SQLite database
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations are timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  // backend
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s",
//	  "settle_delay": "1s",
//	  "settle_attempts": 3,
//	  "notice_ttl": "4s",
//	  "page_size": 50,
//	  "db_path": "launchpad.db",
//	  "log_level": "info",
//	}
package config
