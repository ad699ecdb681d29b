// Package config loads, validates and holds netexport's configuration.
//
// Configuration comes from a YAML file, then environment variables, then
// validation:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("netexport.yaml")
//
// # Environment Variable Overrides
//
// Variables follow the naming convention NETEXPORT_SECTION_FIELD:
//
//   - NETEXPORT_STORE_BACKEND overrides store.backend
//   - NETEXPORT_STORE_SQLITE_PATH overrides store.sqlite.path
//   - NETEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A .env file in the working directory is read first and never replaces
// variables that are already set.
//
// # Precedence
//
//  1. Values from the YAML file
//  2. Default values for fields the file left empty
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton
//
//	if err := config.Initialize("netexport.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// # Example Configuration
//
//	store:
//	  backend: "sqlite"
//	  cache_ttl: "1m"
//	  sqlite:
//	    path: "data/corpus.db"
//	    driver: "sqlite"
//
//	export:
//	  output_dir: "out"
//	  default_format: "graphml"
//	  schedule: "@hourly"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    textfile_path: "/var/lib/node_exporter/netexport.prom"
package config
