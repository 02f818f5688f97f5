package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

type File struct {
	FeedURL   string `toml:"feed_url" yaml:"feed_url" validate:"omitempty,feed_source"`
	Format    string `toml:"format" yaml:"format" validate:"omitempty,oneof=text json jsonl trips"`
	Telemetry string `toml:"telemetry" yaml:"telemetry" validate:"omitempty,hostname_port"`
	LogLevel  string `toml:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	StaticURL string `toml:"static_url" yaml:"static_url" validate:"omitempty,url"`
	StaticZip string `toml:"static_zip" yaml:"static_zip"`
}

var ErrUnknownExtension = errors.New("unsupported config file extension")

func Load(path string) (File, error) {
	var cfg File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return File{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return File{}, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return File{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return File{}, fmt.Errorf("%w: %s", ErrUnknownExtension, path)
	}

	if err := cfg.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("feed_source", isFeedSource)
	return v
}

// isFeedSource accepts an http(s) URL with a host, or anything without a
// scheme, which is read as a local snapshot path.
func isFeedSource(fl validator.FieldLevel) bool {
	source := fl.Field().String()
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		parsed, err := url.ParseRequestURI(source)
		return err == nil && parsed.Host != ""
	}
	return !strings.Contains(source, "://")
}

// Validate reports every problem at once rather than stopping at the first.
func (cfg File) Validate() error {
	var result *multierror.Error

	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		for _, fe := range fieldErrors {
			result = multierror.Append(result, fmt.Errorf("%s: %q fails %q", fe.Field(), fe.Value(), fe.Tag()))
		}
	}

	if cfg.StaticURL != "" && cfg.StaticZip != "" {
		result = multierror.Append(result, errors.New("static_url and static_zip are mutually exclusive"))
	}

	return result.ErrorOrNil()
}
