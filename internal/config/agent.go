package config

import (
	"encoding/json"
	"errors"
	"fmt"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = Prefix + "AGENT_NAME"
	EnvAgentProviderName = Prefix + "AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = Prefix + "AGENT_BASE_URL"
	EnvAgentToken        = Prefix + "AGENT_TOKEN"
	EnvAgentDeployment   = Prefix + "AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = Prefix + "AGENT_API_VERSION"
	EnvAgentAuthType     = Prefix + "AGENT_AUTH_TYPE"
	EnvAgentModelName    = Prefix + "AGENT_MODEL_NAME"
)

// FinalizeAgent fills unset fields of c from the environment, then from the
// go-agents defaults, and validates the result.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	envString(EnvAgentName, &c.Name)
	envString(EnvAgentProviderName, &c.Provider.Name)
	envString(EnvAgentBaseURL, &c.Provider.BaseURL)
	envString(EnvAgentModelName, &c.Model.Name)

	for env, key := range map[string]string{
		EnvAgentToken:      "token",
		EnvAgentDeployment: "deployment",
		EnvAgentAPIVersion: "api_version",
		EnvAgentAuthType:   "auth_type",
	} {
		if _, ok := c.Provider.Options[key]; ok {
			continue
		}
		var v string
		if envString(env, &v); v != "" {
			c.Provider.Options[key] = v
		}
	}

	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	switch {
	case c.Name == "":
		return errors.New("name required")
	case c.Provider.Name == "":
		return errors.New("provider name required")
	}
	return nil
}

// decodeAgent converts the [agent] table of a config file into a go-agents
// AgentConfig. The table uses the same keys as go-agents' JSON form.
func decodeAgent(table map[string]any) (gaconfig.AgentConfig, error) {
	var c gaconfig.AgentConfig
	if len(table) == 0 {
		return c, nil
	}

	data, err := json.Marshal(table)
	if err != nil {
		return c, fmt.Errorf("encode agent table: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode agent table: %w", err)
	}
	return c, nil
}
