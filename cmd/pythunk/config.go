package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reinteract/pythunk/pyrt"
)

// fileConfig is the on-disk form of the search settings.
//
//	framework_dir: /opt/python/Python.framework
//	minimum_version: "2.7"
type fileConfig struct {
	FrameworkDir   string `yaml:"framework_dir"`
	MinimumVersion string `yaml:"minimum_version"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.FrameworkDir = strings.TrimSpace(cfg.FrameworkDir)
	cfg.MinimumVersion = strings.TrimSpace(cfg.MinimumVersion)
	if cfg.MinimumVersion != "" {
		if _, err := pyrt.ParseVersion(cfg.MinimumVersion); err != nil {
			return cfg, fmt.Errorf("config %q: minimum_version: %w", path, err)
		}
	}
	return cfg, nil
}

// searchSettings merges the config file with flag values; flags win.
type searchSettings struct {
	frameworkDir   string
	minimumVersion string
}

func resolveSettings(configPath, frameworkDir, minimumVersion string) (searchSettings, error) {
	var s searchSettings
	if configPath != "" {
		cfg, err := loadFileConfig(configPath)
		if err != nil {
			return s, err
		}
		s.frameworkDir = cfg.FrameworkDir
		s.minimumVersion = cfg.MinimumVersion
	}
	if frameworkDir = strings.TrimSpace(frameworkDir); frameworkDir != "" {
		s.frameworkDir = frameworkDir
	}
	if minimumVersion = strings.TrimSpace(minimumVersion); minimumVersion != "" {
		s.minimumVersion = minimumVersion
	}
	return s, nil
}

func (s searchSettings) options() []pyrt.Option {
	var opts []pyrt.Option
	if s.frameworkDir != "" {
		opts = append(opts, pyrt.WithFrameworkDir(s.frameworkDir))
	}
	if s.minimumVersion != "" {
		opts = append(opts, pyrt.WithMinimumVersion(s.minimumVersion))
	}
	return opts
}
