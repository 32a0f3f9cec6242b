package config

import _ "embed"

// DefaultConfigYAML is the embedded default configuration. An external
// config file or FINTRACK_* environment variables override it.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
