// Package config provides a reusable loader for this node's configuration
// files and environment variables: a default YAML file overlaid with an
// optional named environment file, then overridden by environment
// variables.
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/synnergy-network/xyk-dex/pkg/utils"
)

// Config is the unified configuration for a dexserver process; dexcli does
// not load it.
type Config struct {
	DEX struct {
		DefaultFeeBps             uint16 `mapstructure:"default_fee_bps" json:"default_fee_bps"`
		DefaultProtocolFeePartBps uint16 `mapstructure:"default_protocol_fee_part_bps" json:"default_protocol_fee_part_bps"`
		MaxBasisPoints            uint16 `mapstructure:"max_basis_points" json:"max_basis_points"`
	} `mapstructure:"dex" json:"dex"`

	Server struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"server" json:"server"`

	Logging struct {
		Level  string `mapstructure:"level" json:"level"`
		Format string `mapstructure:"format" json:"format"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads config/default.yaml and merges an optional config/<env>.yaml
// override, then applies environment variables on top. The .env file, if
// present in the working directory, is loaded first so its values are
// visible to viper's environment binding.
func Load(env string) (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, "merge "+env+" config")
		}
	}

	viper.SetEnvPrefix("DEX")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the DEX_ENV environment variable
// to pick an optional override file.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("DEX_ENV", ""))
}
