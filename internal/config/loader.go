package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Foundry.Credential.Token = expandEnvVars(cfg.Foundry.Credential.Token)
	cfg.Portal.Auth.Token = expandEnvVars(cfg.Portal.Auth.Token)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. A missing file produces defaults plus env overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Foundry.ModelDeployment == "" {
		cfg.Foundry.ModelDeployment = "gpt-4o"
	}
	if cfg.Foundry.APIVersion == "" {
		cfg.Foundry.APIVersion = "v1"
	}
	if cfg.Foundry.Credential.Mode == "" {
		cfg.Foundry.Credential.Mode = "cli"
	}
	if cfg.Foundry.Credential.Scope == "" {
		cfg.Foundry.Credential.Scope = DefaultTokenScope
	}
	if cfg.Portal.Port == 0 {
		cfg.Portal.Port = 8000
	}
	if cfg.Portal.Bind == "" {
		cfg.Portal.Bind = "loopback"
	}
	if cfg.Portal.ToolApproval == "" {
		cfg.Portal.ToolApproval = "never"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Style == "" {
		cfg.Logging.Style = "pretty"
	}
}

// applyEnvOverrides reads well-known environment variables and overrides
// config values. The AZURE_AI_* names match what the remote project's own
// tooling exports.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AZURE_AI_PROJECT_ENDPOINT"); v != "" {
		cfg.Foundry.Endpoint = v
	}
	if v := os.Getenv("AZURE_AI_MODEL_DEPLOYMENT"); v != "" {
		cfg.Foundry.ModelDeployment = v
	}
	if v := os.Getenv("AGENTPORTAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Portal.Port = port
		}
	}
	if v := os.Getenv("AGENTPORTAL_TOKEN"); v != "" {
		cfg.Portal.Auth.Token = v
	}
	if v := os.Getenv("AGENTPORTAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

const defaultBaseDir = ".agentportal"

// Paths holds resolved filesystem paths for portal data.
type Paths struct {
	Base   string // ~/.agentportal
	Config string // ~/.agentportal/config.yaml
	Data   string // ~/.agentportal/data
}

// ResolvePaths computes all standard paths from the home directory.
// If AGENTPORTAL_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("AGENTPORTAL_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Data:   filepath.Join(base, "data"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
