package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	// ErrMissingCredential is returned when the translation service has no API key.
	ErrMissingCredential = errors.New("GOOGLE_API_KEY is not set")
	// ErrNoTargetLanguages is returned when no language differs from the source language.
	ErrNoTargetLanguages = errors.New("TARGET_LANGUAGES has no language other than the source language")
)

type Config struct {
	SourceLanguage  string            `mapstructure:"source_language" validate:"required,bcp47_language_tag"`
	TargetLanguages []string          `mapstructure:"target_languages" validate:"dive,bcp47_language_tag"`
	Google          GoogleConfig      `mapstructure:"google"`
	Paths           PathsConfig       `mapstructure:"paths"`
	Translation     TranslationConfig `mapstructure:"translation"`
	Watch           WatchConfig       `mapstructure:"watch"`
}

type GoogleConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	MaxAttempts uint          `mapstructure:"max_attempts" validate:"min=1"`
	Backoff     time.Duration `mapstructure:"backoff"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type PathsConfig struct {
	ComponentsDirectory string `mapstructure:"components_directory" validate:"required"`
	PagesDirectory      string `mapstructure:"pages_directory" validate:"required"`
	BackupDirectory     string `mapstructure:"backup_directory" validate:"required"`
	DictionaryDirectory string `mapstructure:"dictionary_directory" validate:"required"`
	// TrackerFile is relative to DictionaryDirectory.
	TrackerFile    string `mapstructure:"tracker_file" validate:"required"`
	EffectTemplate string `mapstructure:"effect_template" validate:"omitempty,file"`
}

type TranslationConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"min=1"`
	// CacheDirectory keeps successful translations; empty disables the cache.
	CacheDirectory string `mapstructure:"cache_directory"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" validate:"gt=0"`
}

// TrackerPath returns the location of the run tracker.
func (cfg PathsConfig) TrackerPath() string {
	return filepath.Join(cfg.DictionaryDirectory, cfg.TrackerFile)
}

// ValidateTranslation checks what only the translation commands need.
func (cfg Config) ValidateTranslation() error {
	if cfg.Google.APIKey == "" {
		return ErrMissingCredential
	}
	if len(cfg.TargetLanguages) == 0 {
		return ErrNoTargetLanguages
	}
	return nil
}

// LoadEnvFile loads variables of a .env file without overriding the
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("godotenv.Load(%s) > %w", path, err)
	}
	return nil
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/l10nkit")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("source_language", "en")
	v.SetDefault("target_languages", []string{})
	v.SetDefault("google.base_url", "https://translation.googleapis.com")
	v.SetDefault("google.max_attempts", 3)
	v.SetDefault("google.backoff", time.Second)
	v.SetDefault("google.timeout", 30*time.Second)
	v.SetDefault("paths.components_directory", filepath.Join("src", "components"))
	v.SetDefault("paths.pages_directory", filepath.Join("src", "pages"))
	v.SetDefault("paths.backup_directory", filepath.Join("localization", "original-files"))
	v.SetDefault("paths.dictionary_directory", filepath.Join("localization", "language-files"))
	v.SetDefault("paths.tracker_file", "translation-tracker.json")
	// The effect template is optional; the embedded one is used otherwise.
	v.SetDefault("paths.effect_template", "")
	v.SetDefault("translation.concurrency", 4)
	v.SetDefault("translation.cache_directory", "")
	v.SetDefault("watch.debounce", 500*time.Millisecond)

	if err := v.BindEnv("source_language", "SOURCE_LANGUAGE"); err != nil {
		return nil, fmt.Errorf("failed to bind SOURCE_LANGUAGE environment variable: %w", err)
	}
	if err := v.BindEnv("target_languages", "TARGET_LANGUAGES"); err != nil {
		return nil, fmt.Errorf("failed to bind TARGET_LANGUAGES environment variable: %w", err)
	}
	// Bind the API key to environment variables only (not from config file)
	if err := v.BindEnv("google.api_key", "GOOGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GOOGLE_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.SourceLanguage = strings.TrimSpace(cfg.SourceLanguage)
	cfg.TargetLanguages = normalizeLanguages(cfg.TargetLanguages, cfg.SourceLanguage)

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// normalizeLanguages trims and de-duplicates languages in order, splitting
// comma separated items and dropping the source language.
func normalizeLanguages(languages []string, source string) []string {
	normalized := make([]string, 0, len(languages))
	seen := map[string]bool{source: true}
	for _, item := range languages {
		for _, language := range strings.Split(item, ",") {
			language = strings.TrimSpace(language)
			if language == "" || seen[language] {
				continue
			}
			seen[language] = true
			normalized = append(normalized, language)
		}
	}
	return normalized
}
