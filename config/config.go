// Package config loads connection options from a TOML, YAML or JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"ethconnect/connect"
)

const (
	DefaultHTTP = "http://127.0.0.1:8545"
	DefaultWS   = "ws://127.0.0.1:8546"
)

// fileConfig maps config file keys to connect.Options.
type fileConfig struct {
	HTTP         string                       `toml:"http" yaml:"http" json:"http"`
	WS           string                       `toml:"ws" yaml:"ws" json:"ws"`
	IPC          string                       `toml:"ipc" yaml:"ipc" json:"ipc"`
	FallbackHTTP []string                     `toml:"fallback_http" yaml:"fallback_http" json:"fallback_http"`
	FallbackWS   string                       `toml:"fallback_ws" yaml:"fallback_ws" json:"fallback_ws"`
	From         string                       `toml:"from" yaml:"from" json:"from"`
	NoFallback   bool                         `toml:"no_fallback" yaml:"no_fallback" json:"no_fallback"`
	Contracts    map[string]map[string]string `toml:"contracts" yaml:"contracts" json:"contracts"`
	APIFile      string                       `toml:"api_file" yaml:"api_file" json:"api_file"`
}

// Default returns the options used for keys a config file leaves out:
// a local node on the standard HTTP and WebSocket ports.
func Default() connect.Options {
	return connect.Options{
		HTTP: DefaultHTTP,
		WS:   DefaultWS,
	}
}

// Load reads the config file at path and overlays it on Default. The format
// is chosen by extension: .toml, .yaml/.yml or .json. A relative api_file is
// resolved against the directory of path.
func Load(path string) (connect.Options, error) {
	raw, defined, err := decode(path)
	if err != nil {
		return connect.Options{}, err
	}

	cfg := Default()
	if defined("http") {
		cfg.HTTP = strings.TrimSpace(raw.HTTP)
	}
	if defined("ws") {
		cfg.WS = strings.TrimSpace(raw.WS)
	}
	if defined("ipc") {
		cfg.IPC = strings.TrimSpace(raw.IPC)
	}
	if defined("fallback_http") {
		cfg.FallbackHTTP = trimAll(raw.FallbackHTTP)
	}
	if defined("fallback_ws") {
		cfg.FallbackWS = strings.TrimSpace(raw.FallbackWS)
	}
	if defined("from") {
		cfg.From = strings.TrimSpace(raw.From)
	}
	if defined("no_fallback") {
		cfg.NoFallback = raw.NoFallback
	}
	if defined("contracts") && raw.Contracts != nil {
		cfg.Contracts = make(connect.ContractRegistry, len(raw.Contracts))
		for id, contracts := range raw.Contracts {
			cfg.Contracts[id] = connect.Contracts(contracts)
		}
	}

	if apiPath := strings.TrimSpace(raw.APIFile); apiPath != "" {
		api, err := loadAPI(path, apiPath)
		if err != nil {
			return connect.Options{}, err
		}
		cfg.API = api
	}

	if err := cfg.Validate(); err != nil {
		return connect.Options{}, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// decode parses path into a fileConfig and reports which top-level keys the
// file set.
func decode(path string) (fileConfig, func(string) bool, error) {
	var raw fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return fileConfig{}, nil, fmt.Errorf("load config %q: %w", path, err)
		}
		return raw, func(key string) bool { return meta.IsDefined(key) }, nil

	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return fileConfig{}, nil, fmt.Errorf("load config %q: %w", path, err)
		}
		var keys map[string]interface{}
		unmarshal := yaml.Unmarshal
		if ext == ".json" {
			unmarshal = json.Unmarshal
		}
		if err := unmarshal(data, &raw); err != nil {
			return fileConfig{}, nil, fmt.Errorf("load config %q: %w", path, err)
		}
		if err := unmarshal(data, &keys); err != nil {
			return fileConfig{}, nil, fmt.Errorf("load config %q: %w", path, err)
		}
		return raw, func(key string) bool { _, ok := keys[key]; return ok }, nil

	default:
		return fileConfig{}, nil, fmt.Errorf("load config %q: unsupported format %q", path, ext)
	}
}

// loadAPI reads the JSON contract API description referenced by a config file.
func loadAPI(configPath, apiPath string) (connect.API, error) {
	resolved := apiPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(configPath), resolved)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return connect.API{}, fmt.Errorf("load config %q: api file %q: %w", configPath, apiPath, err)
	}
	var api connect.API
	if err := json.Unmarshal(data, &api); err != nil {
		return connect.API{}, fmt.Errorf("load config %q: parse api file %q: %w", configPath, apiPath, err)
	}
	return api, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
