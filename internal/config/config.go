package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"gopkg.in/yaml.v3"

	"showdeck/internal/theme"
)

// Config represents the persisted application configuration.
type Config struct {
	APIBaseURL           string `yaml:"api_base_url"`
	UserAgent            string `yaml:"user_agent"`
	Proxy                string `yaml:"proxy,omitempty"`
	TLSVerify            bool   `yaml:"tls_verify"`
	ColorTheme           string `yaml:"color_theme"`
	MaxSummaryLines      int    `yaml:"max_summary_lines"`
	ShowNameMaxLength    int    `yaml:"show_name_max_length"`
	EpisodeNameMaxLength int    `yaml:"episode_name_max_length"`
}

// Defaults returns the baseline configuration used on first run.
func Defaults() Config {
	return Config{
		APIBaseURL:           "https://api.tvmaze.com",
		UserAgent:            "showdeck/dev",
		TLSVerify:            true,
		ColorTheme:           theme.Default,
		MaxSummaryLines:      6,
		ShowNameMaxLength:    24,
		EpisodeNameMaxLength: 48,
	}
}

// Ensure loads configuration from the provided path, prompting the user to
// create one if it does not yet exist.
func Ensure(ctx context.Context, path string) (Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg = Defaults()
	if err := bootstrap(ctx, &cfg); err != nil {
		return Config{}, err
	}

	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads configuration from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = Defaults().APIBaseURL
	}
	if strings.TrimSpace(cfg.ColorTheme) == "" {
		cfg.ColorTheme = theme.Default
	}
	if cfg.MaxSummaryLines <= 0 {
		cfg.MaxSummaryLines = Defaults().MaxSummaryLines
	}
	if cfg.ShowNameMaxLength <= 0 {
		cfg.ShowNameMaxLength = Defaults().ShowNameMaxLength
	}
	if cfg.EpisodeNameMaxLength <= 0 {
		cfg.EpisodeNameMaxLength = Defaults().EpisodeNameMaxLength
	}
	return cfg, nil
}

// Save writes configuration back to disk, ensuring directory permissions are restrictive.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, path)
}

func bootstrap(ctx context.Context, cfg *Config) error {
	if fromEnv := strings.TrimSpace(os.Getenv("SHOWDECK_API_BASE_URL")); fromEnv != "" {
		if err := validateURLString(fromEnv); err != nil {
			return err
		}
		cfg.APIBaseURL = fromEnv
		return nil
	}

	prompt := &survey.Select{
		Message: "Choose a color theme",
		Options: theme.Names(),
		Default: cfg.ColorTheme,
	}

	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return fmt.Errorf("initialisation interrupted")
		}
		return err
	}
	cfg.ColorTheme = answer
	return nil
}

// EditInteractive opens an interactive survey session allowing the user to
// update configuration values.
func EditInteractive(ctx context.Context, cfg Config) (Config, error) {
	questions := []*survey.Question{
		{
			Name: "api_base_url",
			Prompt: &survey.Input{
				Message: "Catalog API base URL",
				Default: cfg.APIBaseURL,
			},
			Validate: validateURL,
		},
		{
			Name: "user_agent",
			Prompt: &survey.Input{
				Message: "User agent",
				Default: cfg.UserAgent,
			},
		},
		{
			Name: "proxy",
			Prompt: &survey.Input{
				Message: "HTTP proxy (optional)",
				Default: cfg.Proxy,
			},
		},
		{
			Name: "tls_verify",
			Prompt: &survey.Confirm{
				Message: "Verify TLS certificates",
				Default: cfg.TLSVerify,
			},
		},
		{
			Name: "color_theme",
			Prompt: &survey.Select{
				Message: "Color theme",
				Options: theme.Names(),
				Default: cfg.ColorTheme,
			},
		},
		{
			Name: "max_summary_lines",
			Prompt: &survey.Input{
				Message: "Maximum summary lines per card",
				Default: fmt.Sprintf("%d", cfg.MaxSummaryLines),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "show_name_max_length",
			Prompt: &survey.Input{
				Message: "Maximum show name length in lists",
				Default: fmt.Sprintf("%d", cfg.ShowNameMaxLength),
			},
			Validate: validatePositiveInt,
		},
		{
			Name: "episode_name_max_length",
			Prompt: &survey.Input{
				Message: "Maximum episode name length in lists",
				Default: fmt.Sprintf("%d", cfg.EpisodeNameMaxLength),
			},
			Validate: validatePositiveInt,
		},
	}

	answers := map[string]interface{}{}
	select {
	case <-ctx.Done():
		return Config{}, ctx.Err()
	default:
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return Config{}, err
	}

	cfg.APIBaseURL = strings.TrimSpace(answers["api_base_url"].(string))
	cfg.UserAgent = strings.TrimSpace(answers["user_agent"].(string))
	cfg.Proxy = strings.TrimSpace(answers["proxy"].(string))
	cfg.TLSVerify = answers["tls_verify"].(bool)
	if themeName, ok := answers["color_theme"].(string); ok {
		cfg.ColorTheme = themeName
	}
	cfg.MaxSummaryLines = toInt(answers["max_summary_lines"])
	cfg.ShowNameMaxLength = toInt(answers["show_name_max_length"])
	cfg.EpisodeNameMaxLength = toInt(answers["episode_name_max_length"])

	return cfg, nil
}

func validateURL(ans interface{}) error {
	return validateURLString(strings.TrimSpace(ans.(string)))
}

func validateURLString(value string) error {
	if value == "" {
		return errors.New("value required")
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

func validatePositiveInt(ans interface{}) error {
	v := strings.TrimSpace(ans.(string))
	if v == "" {
		return errors.New("value required")
	}
	i, err := parseInt(v)
	if err != nil {
		return err
	}
	if i <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func parseInt(value string) (int, error) {
	var i int
	_, err := fmt.Sscanf(value, "%d", &i)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return i, nil
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case string:
		i, _ := parseInt(v)
		return i
	default:
		return 0
	}
}
