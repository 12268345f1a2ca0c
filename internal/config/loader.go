package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const agentFile = "agent.yaml"

// Load reads the agent configuration.
// Search order: customPath -> ~/.t2048/configs/agent.yaml -> ./configs/agent.yaml -> embedded default.
// Fields missing from a file keep their default values.
func Load(customPath string) (AgentConfig, error) {
	cfg := DefaultAgentConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(agentFile), filepath.Join("configs", agentFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fileCfg := DefaultAgentConfig()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return fileCfg, fileCfg.Validate()
	}

	if err := yaml.Unmarshal(defaultAgentYAML, &cfg); err != nil {
		return DefaultAgentConfig(), nil
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "configs", filename)
}
