package config

import (
	"runtime"

	"github.com/spf13/viper"
)

// Config represents the indexer configuration
type Config struct {
	// Engine settings
	HashAlgo string `mapstructure:"hash_algo"` // content digest: md5, blake3
	Workers  int    `mapstructure:"workers"`   // hash worker goroutines

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // text, json
	OutputFile   string `mapstructure:"output_file"`   // output file path, stdout if empty
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("hash_algo", "md5")
	v.SetDefault("workers", runtime.NumCPU()*2)
	v.SetDefault("report_format", "text")
	v.SetDefault("output_file", "")

	// Read environment variables
	v.SetEnvPrefix("ARQIVR")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
