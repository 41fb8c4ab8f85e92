package hxpage

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures an Application.
type Settings struct {
	// ComponentPath is the path listener requests are served under.
	ComponentPath string `yaml:"component_path"`
	// StripFrameworkTags removes wicket:* tags and wicket:id attributes from
	// rendered markup.
	StripFrameworkTags bool `yaml:"strip_framework_tags"`
	// SensitiveListeners encrypts listener references instead of signing
	// them.
	SensitiveListeners bool `yaml:"sensitive_listeners"`
	// SessionCookie is the name of the session cookie.
	SessionCookie string `yaml:"session_cookie"`
	// MaxPages is the number of pages a session keeps. Older pages expire.
	MaxPages int `yaml:"max_pages"`

	Logging LogSettings `yaml:"logging"`
}

// LogSettings configures the application logger.
type LogSettings struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		ComponentPath:      "/_c/",
		StripFrameworkTags: true,
		SessionCookie:      "hxpage_session",
		MaxPages:           20,
		Logging: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// ParseSettings reads YAML settings. Fields missing from data keep their
// default values.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("hxpage: parse settings: %w", err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads YAML settings from a file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("hxpage: load settings: %w", err)
	}
	return ParseSettings(data)
}

func (s Settings) validate() error {
	if s.ComponentPath == "" || s.ComponentPath[0] != '/' || s.ComponentPath[len(s.ComponentPath)-1] != '/' {
		return fmt.Errorf("hxpage: component_path %q must start and end with /", s.ComponentPath)
	}
	if s.SessionCookie == "" {
		return fmt.Errorf("hxpage: session_cookie must not be empty")
	}
	if s.MaxPages < 1 {
		return fmt.Errorf("hxpage: max_pages must be positive, got %d", s.MaxPages)
	}
	if _, err := parseLevel(s.Logging.Level); err != nil {
		return err
	}
	switch s.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("hxpage: unknown log format %q", s.Logging.Format)
	}
	return nil
}

// Option configures an Application.
type Option func(*Application)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(a *Application) { a.settings = s }
}

// WithLogger sets the logger. Without it the application builds one from its
// log settings, writing to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) { a.logger = logger }
}

// WithResolver appends a resolver to the default resolver chain.
func WithResolver(r Resolver) Option {
	return func(a *Application) { a.resolvers = append(a.resolvers, r) }
}

// WithMessages sets the messages rendered by <wicket:message> tags.
func WithMessages(messages map[string]string) Option {
	return func(a *Application) {
		for k, v := range messages {
			a.messages[k] = v
		}
	}
}
