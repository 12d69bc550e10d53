package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

var (
	transports = []string{"http", "resty"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
	outputs    = []string{"text", "json", "yaml"}
)

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path, message string) {
		errs = append(errs, ValidationError{Path: path, Message: message})
	}

	if c.APIEndpoint != "" {
		u, err := url.Parse(c.APIEndpoint)
		if err != nil {
			add("api_endpoint", fmt.Sprintf("invalid URL: %v", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			add("api_endpoint", "scheme must be http or https")
		} else if u.Host == "" {
			add("api_endpoint", "host is required")
		}
	}

	if c.ConnectTimeout <= 0 {
		add("connect_timeout", "must be positive")
	}
	if c.Timeout <= 0 {
		add("timeout", "must be positive")
	}
	if c.MaxRedirects < 0 {
		add("max_redirects", "cannot be negative")
	}

	checkOneOf(add, "transport", c.Transport, transports)
	checkOneOf(add, "log_level", c.LogLevel, logLevels)
	checkOneOf(add, "log_format", c.LogFormat, logFormats)
	checkOneOf(add, "output", c.Output, outputs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RequireEndpoint reports an error when no endpoint has been configured.
func (c *Config) RequireEndpoint() error {
	if c.APIEndpoint == "" {
		return ValidationError{
			Path:    "api_endpoint",
			Message: fmt.Sprintf("is required (use --endpoint or %s_API_ENDPOINT)", EnvPrefix),
		}
	}
	return nil
}

func checkOneOf(add func(string, string), path, value string, allowed []string) {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return
		}
	}
	add(path, fmt.Sprintf("invalid value %q (allowed: %s)", value, strings.Join(allowed, ", ")))
}
