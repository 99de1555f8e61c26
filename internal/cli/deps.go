package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/vigtec/agentportal/internal/config"
	"github.com/vigtec/agentportal/internal/foundry"
	"github.com/vigtec/agentportal/internal/logging"
)

// loadConfig reads and validates the portal config. Validation issues
// are logged individually before the command fails.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}

	if cfg.Logging.Level != "" && logLevel == "" {
		log = logging.New(logWriter(cfg.Logging.Style), cfg.Logging.Level)
	}

	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return cfg, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}
	return cfg, nil
}

// logWriter maps the configured style onto a writer for logging.New.
// A nil writer selects the pretty console writer; json style writes raw
// zerolog lines to stderr.
func logWriter(style string) io.Writer {
	if style == "json" {
		return os.Stderr
	}
	return nil
}

// newFoundryClient builds the remote adapter from config.
func newFoundryClient(cfg config.Config) (*foundry.HTTPClient, error) {
	tokens, err := foundry.NewTokenSource(cfg.Foundry.Credential)
	if err != nil {
		return nil, fmt.Errorf("building credential: %w", err)
	}
	return foundry.NewHTTPClient(cfg.Foundry.Endpoint, cfg.Foundry.APIVersion, tokens, log), nil
}
