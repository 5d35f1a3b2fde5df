package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	UpdatePeriod time.Duration `yaml:"update_period"`
	Background   *bool         `yaml:"background"`
	Renderer     string        `yaml:"renderer"`
	Layout       struct {
		Width    int               `yaml:"width"`
		Height   int               `yaml:"height"`
		Columns  int               `yaml:"columns"`
		ShowAxis *bool             `yaml:"show_axis"`
		LogScale *bool             `yaml:"log_scale"`
		Colors   map[string]string `yaml:"colors"`
	} `yaml:"layout"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(raw, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return fc, nil
}

// apply copies set fields onto the flag config; unset fields keep defaults.
func (fc *fileConfig) apply(c *Config) {
	if fc.UpdatePeriod != 0 {
		c.UpdatePeriod = fc.UpdatePeriod
	}
	if fc.Background != nil {
		c.Background = *fc.Background
	}
	if fc.Renderer != "" {
		c.Renderer = fc.Renderer
	}
	if fc.Layout.Width != 0 {
		c.Width = fc.Layout.Width
	}
	if fc.Layout.Height != 0 {
		c.Height = fc.Layout.Height
	}
	if fc.Layout.Columns != 0 {
		c.Columns = fc.Layout.Columns
	}
	if fc.Layout.ShowAxis != nil {
		c.ShowAxis = *fc.Layout.ShowAxis
	}
	if fc.Layout.LogScale != nil {
		c.LogScale = *fc.Layout.LogScale
	}
	if len(fc.Layout.Colors) > 0 {
		c.SeriesColors = fc.Layout.Colors
	}
}
