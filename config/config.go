// Package config - Process configuration loaded from defaults and environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

// ServerConfig defines HTTP server configuration.
type ServerConfig struct {
	// Port is the TCP port the server binds on all interfaces.
	Port int `koanf:"port"`
	// MaxUploadBytes caps the size of a multipart upload.
	MaxUploadBytes int64 `koanf:"maxuploadbytes"`
	// Debug switches the logger to development output.
	Debug bool `koanf:"debug"`
}

// ModelConfig defines which network is served and where its weights live.
type ModelConfig struct {
	// Name selects a model descriptor from the registry.
	Name string `koanf:"name"`
	// Path is the local weights file. When empty or missing, the weights
	// are fetched from URL into CacheDir.
	Path string `koanf:"path"`
	// URL is the download source for the weights file.
	URL string `koanf:"url"`
	// CacheDir holds downloaded weights.
	CacheDir string `koanf:"cachedir"`
}

// ProviderConfig defines the execution provider used for inference.
type ProviderConfig struct {
	// Backend names the ONNX Runtime execution provider (cpu, cuda, coreml).
	// Resolved once at model load time, never re-queried per request.
	Backend string `koanf:"backend"`
	// Warmup is the number of forward passes run right after loading.
	Warmup int `koanf:"warmup"`
}

// DepthConfig tunes the rendered depth map.
type DepthConfig struct {
	// Invert flips the near/far intensity convention of the output.
	Invert bool `koanf:"invert"`
}

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Model    ModelConfig    `koanf:"model"`
	Provider ProviderConfig `koanf:"provider"`
	Depth    DepthConfig    `koanf:"depth"`
}

// defaults mirror the reference deployment: port 5000, CPU inference,
// MiDaS small weights cached next to the binary.
var defaults = map[string]any{
	"server.port":           5000,
	"server.maxuploadbytes": int64(10 << 20),
	"server.debug":          false,
	"model.name":            "midas-small",
	"model.path":            "",
	"model.url":             "",
	"model.cachedir":        "./weights",
	"provider.backend":      "cpu",
	"provider.warmup":       0,
	"depth.invert":          false,
}

// Load builds the configuration from defaults overlaid with DEPTH_-prefixed
// environment variables (DEPTH_PROVIDER_BACKEND=cuda overrides
// provider.backend). A plain PORT variable is honored last for compatibility
// with the reference deployment.
//
// Returns:
//   - *Config: The loaded configuration.
//   - error: An error if loading or unmarshalling fails.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("DEPTH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DEPTH_")), "_", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		cfg.Server.Port = port
	}

	return &cfg, nil
}
