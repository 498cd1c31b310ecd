package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type config struct {
	Size        int    `yaml:"size"`
	Steps       int    `yaml:"steps"`
	Seed        int64  `yaml:"seed"`
	ReportEvery string `yaml:"report-every"`
	LogLevel    string `yaml:"log-level"`
}

func defaultConfig() config {
	return config{
		Size:        256,
		Steps:       100000,
		Seed:        1,
		ReportEvery: "5s",
		LogLevel:    "info",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config file")
	}
	return cfg, nil
}
