package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type FrameDBConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir string `mapstructure:"workdir"`
	} `mapstructure:"storage"`

	Buffer struct {
		PoolSize int    `mapstructure:"pool_size"`
		Policy   string `mapstructure:"policy"`
	} `mapstructure:"buffer"`
}

func LoadConfig(path string) (*FrameDBConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app_name", "framedb")
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("buffer.pool_size", 128)
	v.SetDefault("buffer.policy", "clock")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg FrameDBConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
