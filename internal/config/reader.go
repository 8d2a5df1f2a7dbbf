package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}

	err = cfg.Database.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
