package config

// Config is the root configuration for the agent portal.
type Config struct {
	Foundry FoundryConfig `yaml:"foundry"`
	Portal  PortalConfig  `yaml:"portal,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// FoundryConfig points at the remote agent-hosting project.
type FoundryConfig struct {
	Endpoint        string           `yaml:"endpoint"`                  // project endpoint URL, required
	ModelDeployment string           `yaml:"modelDeployment,omitempty"` // default model deployment name
	APIVersion      string           `yaml:"apiVersion,omitempty"`
	Credential      CredentialConfig `yaml:"credential,omitempty"`
}

// CredentialConfig selects how bearer tokens for the remote service are
// obtained.
type CredentialConfig struct {
	Mode  string `yaml:"mode,omitempty"`  // "cli" (ambient az login) | "token" (static)
	Token string `yaml:"token,omitempty"` // static bearer token, supports ${ENV_VAR}
	Scope string `yaml:"scope,omitempty"` // token resource scope for cli mode
}

// PortalConfig controls the portal HTTP/WebSocket server.
type PortalConfig struct {
	Port         int        `yaml:"port,omitempty"`
	Bind         string     `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomHost   string     `yaml:"customBindHost,omitempty"`
	Auth         PortalAuth `yaml:"auth,omitempty"`
	ToolApproval string     `yaml:"toolApproval,omitempty"` // approval policy for attached tools
}

// PortalAuth configures portal authentication.
type PortalAuth struct {
	Token string `yaml:"token,omitempty"` // supports ${ENV_VAR}; empty disables auth
}

// StoreConfig configures the optional chat transcript store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // sqlite file; ":memory:" for tests
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	Style string `yaml:"style,omitempty"` // "pretty" | "json"
}
