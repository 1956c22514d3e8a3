//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the editor settings.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Width         int    `json:"width" yaml:"width" toml:"width"`
	Height        int    `json:"height" yaml:"height" toml:"height"`
	BlockSize     int    `json:"block_size" yaml:"block_size" toml:"block_size"`
	RenderDelayMs int    `json:"render_delay_ms" yaml:"render_delay_ms" toml:"render_delay_ms"`
	OutputDelayMs int    `json:"output_delay_ms" yaml:"output_delay_ms" toml:"output_delay_ms"`
	Brush         string `json:"brush" yaml:"brush" toml:"brush"`
	Store         string `json:"store" yaml:"store" toml:"store"`
	StorePath     string `json:"store_path" yaml:"store_path" toml:"store_path"`
	SaveKey       string `json:"save_key" yaml:"save_key" toml:"save_key"`
	LogFile       string `json:"log_file" yaml:"log_file" toml:"log_file"`
	LogLevel      string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unspecified field.
func (c *Config) ApplyDefaults() {
	if c.Width == 0 {
		c.Width = 30
	}
	if c.Height == 0 {
		c.Height = 30
	}
	if c.BlockSize == 0 {
		c.BlockSize = 10
	}
	if c.RenderDelayMs == 0 {
		c.RenderDelayMs = 50
	}
	if c.OutputDelayMs == 0 {
		c.OutputDelayMs = 1000
	}
	if c.Brush == "" {
		c.Brush = "dig"
	}
	if c.Store == "" {
		c.Store = "file"
	}
	if c.StorePath == "" {
		c.StorePath = defaultPath(".fortplan")
	}
	if c.SaveKey == "" {
		c.SaveKey = "fortress"
	}
	if c.LogFile == "" {
		c.LogFile = defaultPath(".fortplanlog")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

func (c Config) RenderDelay() time.Duration {
	return time.Duration(c.RenderDelayMs) * time.Millisecond
}

func (c Config) OutputDelay() time.Duration {
	return time.Duration(c.OutputDelayMs) * time.Millisecond
}

// Validate rejects settings the editor cannot start with.
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("invalid level size %dx%d", c.Width, c.Height)
	}
	if c.BlockSize < 0 {
		return fmt.Errorf("invalid block size %d", c.BlockSize)
	}
	if c.RenderDelayMs < 0 || c.OutputDelayMs < 0 {
		return fmt.Errorf("invalid delays %dms/%dms", c.RenderDelayMs, c.OutputDelayMs)
	}
	return nil
}

// Load reads a configuration file based on its extension and applies defaults.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}
