// Package config loads and validates service configuration from
// defaults, an optional YAML file, and GRIDSOLVE_-prefixed environment
// variables (highest precedence).
package config

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Solver  SolverConfig  `mapstructure:"solver" validate:"required"`
	Grid    GridConfig    `mapstructure:"grid" validate:"required"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the puzzle store settings.
type StorageConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// SolverConfig selects the solving engine.
type SolverConfig struct {
	Kind    string `mapstructure:"kind" validate:"required,oneof=propagation backtrack dlx parallel"`
	Workers int    `mapstructure:"workers" validate:"gte=0"`
}

// GridConfig sets the default puzzle geometry for generation.
type GridConfig struct {
	BoxRows int `mapstructure:"box_rows" validate:"required,gte=2,lte=5"`
	BoxCols int `mapstructure:"box_cols" validate:"required,gte=2,lte=5"`
}
