package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type TopQlConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		DataDir         string `mapstructure:"data_dir"`
		Persist         bool   `mapstructure:"persist"`
		SnapshotHistory bool   `mapstructure:"snapshot_history"`
	} `mapstructure:"storage"`

	Repl struct {
		HistoryFile string `mapstructure:"history_file"`
	} `mapstructure:"repl"`
}

func LoadConfig(path string) (*TopQlConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app_name", "topql")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("repl.history_file", "/tmp/topql-history.tmp")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg TopQlConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
