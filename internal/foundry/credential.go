package foundry

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"golang.org/x/oauth2"

	"github.com/vigtec/agentportal/internal/config"
)

// NewTokenSource builds a token source from credential config.
// Mode "cli" shells out to the ambient identity provider (az login);
// mode "token" wraps a static bearer token.
func NewTokenSource(cfg config.CredentialConfig) (oauth2.TokenSource, error) {
	switch cfg.Mode {
	case "", "cli":
		scope := cfg.Scope
		if scope == "" {
			scope = config.DefaultTokenScope
		}
		return &cliTokenSource{scope: scope}, nil
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("credential mode %q requires a token", cfg.Mode)
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}), nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", cfg.Mode)
	}
}

// cliTokenSource obtains a bearer token from the Azure CLI's cached login.
// Every call runs the CLI again: each logical remote operation acquires a
// fresh scoped credential and nothing is held across operations.
type cliTokenSource struct {
	scope string
}

// cliTokenOutput is the JSON printed by `az account get-access-token`.
type cliTokenOutput struct {
	AccessToken string `json:"accessToken"`
	ExpiresOn   string `json:"expires_on,omitempty"`
	Expires     string `json:"expiresOn,omitempty"`
}

func (s *cliTokenSource) Token() (*oauth2.Token, error) {
	out, err := exec.Command("az", "account", "get-access-token",
		"--resource", s.scope, "--output", "json").Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("az account get-access-token: %s", exitErr.Stderr)
		}
		return nil, fmt.Errorf("az account get-access-token: %w", err)
	}

	var parsed cliTokenOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parsing az token output: %w", err)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("az returned no access token (is `az login` done?)")
	}

	tok := &oauth2.Token{AccessToken: parsed.AccessToken}
	if parsed.Expires != "" {
		if t, err := time.Parse("2006-01-02 15:04:05.000000", parsed.Expires); err == nil {
			tok.Expiry = t
		}
	}
	return tok, nil
}
