/*
Package config loads datakit settings.

# Overview

Config is a typed settings struct with four sections: log, store, stats and
telemetry. Every loader starts from Default(), so a file only needs to name
the keys it changes.

# Basic Usage

	cfg, err := config.FromFile("datakit.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
	    log.Fatal(err)
	}

# File Formats

FromFile picks a decoder by extension:
  - .yaml, .yml: gopkg.in/yaml.v3
  - .json: encoding/json
  - .toml: github.com/BurntSushi/toml

The same keys are used in every format:

	log:
	  level: debug
	  format: json
	store:
	  driver: sqlite
	  path: /var/lib/datakit/records.db
	stats:
	  outlier_threshold: 2.5
	telemetry:
	  metrics: true
	  tracing: false

# Environment Overrides

ApplyEnv reads DATAKIT_LOG_LEVEL, DATAKIT_LOG_FORMAT, DATAKIT_STORE_DRIVER,
DATAKIT_STORE_PATH, DATAKIT_OUTLIER_THRESHOLD, DATAKIT_METRICS and
DATAKIT_TRACING. Unset or unparsable variables leave the current value.
*/
package config
