package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
//
// A missing foundry endpoint is reported here and treated as fatal by
// callers: the portal refuses to initialize rather than run degraded.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Foundry.Endpoint == "" {
		issues = append(issues, ValidationIssue{
			Path:    "foundry.endpoint",
			Message: "project endpoint is required (set foundry.endpoint or AZURE_AI_PROJECT_ENDPOINT)",
		})
	} else if u, err := url.Parse(cfg.Foundry.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, ValidationIssue{
			Path:    "foundry.endpoint",
			Message: fmt.Sprintf("must be an absolute URL, got %q", cfg.Foundry.Endpoint),
		})
	}

	validCredModes := []string{"cli", "token"}
	if cfg.Foundry.Credential.Mode != "" && !slices.Contains(validCredModes, cfg.Foundry.Credential.Mode) {
		issues = append(issues, ValidationIssue{
			Path:    "foundry.credential.mode",
			Message: fmt.Sprintf("must be one of %v, got %q", validCredModes, cfg.Foundry.Credential.Mode),
		})
	}
	if cfg.Foundry.Credential.Mode == "token" && cfg.Foundry.Credential.Token == "" {
		issues = append(issues, ValidationIssue{
			Path:    "foundry.credential.token",
			Message: "token mode requires a token value",
		})
	}

	if cfg.Portal.Port < 0 || cfg.Portal.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "portal.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Portal.Port),
		})
	}

	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Portal.Bind != "" && !slices.Contains(validBinds, cfg.Portal.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "portal.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Portal.Bind),
		})
	}
	if cfg.Portal.Bind == "custom" && cfg.Portal.CustomHost == "" {
		issues = append(issues, ValidationIssue{
			Path:    "portal.customBindHost",
			Message: "custom bind requires a host",
		})
	}

	validApprovals := []string{"never", "always"}
	if cfg.Portal.ToolApproval != "" && !slices.Contains(validApprovals, cfg.Portal.ToolApproval) {
		issues = append(issues, ValidationIssue{
			Path:    "portal.toolApproval",
			Message: fmt.Sprintf("must be one of %v, got %q", validApprovals, cfg.Portal.ToolApproval),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.Style != "" && !slices.Contains(validStyles, cfg.Logging.Style) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.style",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.Style),
		})
	}

	return issues
}
