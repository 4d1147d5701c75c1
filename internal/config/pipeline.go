package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	EnvPipelineTemperature    = Prefix + "PIPELINE_TEMPERATURE"
	EnvPipelineMaxRetries     = Prefix + "PIPELINE_MAX_RETRIES"
	EnvPipelineTimeout        = Prefix + "PIPELINE_TIMEOUT"
	EnvPipelineMaxRPM         = Prefix + "PIPELINE_MAX_RPM"
	EnvPipelineRetryInterval  = Prefix + "PIPELINE_RETRY_INTERVAL"
	EnvPipelineArtifactPrefix = Prefix + "PIPELINE_ARTIFACT_PREFIX"
	EnvPipelinePromptsFile    = Prefix + "PIPELINE_PROMPTS_FILE"
)

// PipelineConfig tunes the generation backend shared by every stage.
// Temperature, MaxRetries and MaxRPM are pointers so an explicit zero
// survives defaulting. A MaxRPM of zero disables the request ceiling.
type PipelineConfig struct {
	Temperature    *float64 `toml:"temperature"`
	MaxRetries     *int     `toml:"max_retries"`
	Timeout        string   `toml:"timeout"`
	MaxRPM         *int     `toml:"max_rpm"`
	RetryInterval  string   `toml:"retry_interval"`
	ArtifactPrefix string   `toml:"artifact_prefix"`
	PromptsFile    string   `toml:"prompts_file"`
}

func (c *PipelineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *PipelineConfig) RetryIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryInterval)
	return d
}

// Finalize fills unset fields from the environment, then from defaults,
// and validates the result.
func (c *PipelineConfig) Finalize() error {
	if err := errors.Join(
		envFloatPtr(EnvPipelineTemperature, &c.Temperature),
		envIntPtr(EnvPipelineMaxRetries, &c.MaxRetries),
		envIntPtr(EnvPipelineMaxRPM, &c.MaxRPM),
	); err != nil {
		return err
	}
	envString(EnvPipelineTimeout, &c.Timeout)
	envString(EnvPipelineRetryInterval, &c.RetryInterval)
	envString(EnvPipelineArtifactPrefix, &c.ArtifactPrefix)
	envString(EnvPipelinePromptsFile, &c.PromptsFile)

	if c.Temperature == nil {
		c.Temperature = ptr(0.2)
	}
	if c.MaxRetries == nil {
		c.MaxRetries = ptr(3)
	}
	if c.Timeout == "" {
		c.Timeout = "120s"
	}
	if c.MaxRPM == nil {
		c.MaxRPM = ptr(3)
	}
	if c.RetryInterval == "" {
		c.RetryInterval = "1s"
	}
	if c.ArtifactPrefix == "" {
		c.ArtifactPrefix = "plans"
	}

	if t := *c.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", t)
	}
	if *c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}
	if *c.MaxRPM < 0 {
		return fmt.Errorf("max_rpm cannot be negative")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.RetryInterval); err != nil {
		return fmt.Errorf("invalid retry_interval: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxRetries != nil {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRPM != nil {
		c.MaxRPM = overlay.MaxRPM
	}
	if overlay.RetryInterval != "" {
		c.RetryInterval = overlay.RetryInterval
	}
	if overlay.ArtifactPrefix != "" {
		c.ArtifactPrefix = overlay.ArtifactPrefix
	}
	if overlay.PromptsFile != "" {
		c.PromptsFile = overlay.PromptsFile
	}
}

func ptr[T any](v T) *T { return &v }
