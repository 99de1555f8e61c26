// Package config loads and validates the portal configuration.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultTokenScope is the resource scope requested from the ambient
// identity provider when none is configured.
const DefaultTokenScope = "https://ai.azure.com"

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Foundry: FoundryConfig{
			ModelDeployment: "gpt-4o",
			APIVersion:      "v1",
			Credential: CredentialConfig{
				Mode:  "cli",
				Scope: DefaultTokenScope,
			},
		},
		Portal: PortalConfig{
			Port:         8000,
			Bind:         "loopback",
			ToolApproval: "never",
		},
		Logging: LoggingConfig{
			Level: "info",
			Style: "pretty",
		},
	}
}
