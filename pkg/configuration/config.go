// Package configuration loads this toolkit's Cfg from a YAML file named by
// an environment variable, the teacher's envconfig/defaults/yaml.v2/validator
// pipeline adapted to the SSI toolkit's own shape.
package configuration

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"onyx/pkg/logger"
)

// Issuer configures the identity the CLI signs credentials as.
type Issuer struct {
	DID     string `yaml:"did" validate:"required"`
	KeyPath string `yaml:"key_path" validate:"required"`
	Alg     string `yaml:"alg" default:"ES256K" validate:"required,oneof=ES256K EdDSA"`
}

// StatusList configures where revocation lists are published and served
// from.
type StatusList struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	ListenAddr string `yaml:"listen_addr" default:":8080"`
}

// Log configures the ambient logger.
type Log struct {
	Level      string `yaml:"level" default:"info"`
	Production bool   `yaml:"production" default:"false"`
}

// Cfg is the top-level configuration for the onyxctl CLI.
type Cfg struct {
	Issuer     Issuer     `yaml:"issuer" validate:"required"`
	StatusList StatusList `yaml:"status_list" validate:"required"`
	Log        Log        `yaml:"log"`
}

type envVars struct {
	ConfigYAML string `envconfig:"ONYX_CONFIG_YAML" required:"true"`
}

// ErrConfigIsDir is returned when the path named by ONYX_CONFIG_YAML is a
// directory rather than a file.
var ErrConfigIsDir = errors.New("configuration: config path is a folder")

// New reads the YAML file named by the ONYX_CONFIG_YAML environment
// variable, seeds defaults, overlays the file, and validates the result.
func New() (*Cfg, error) {
	log := logger.NewSimple("Configuration")
	log.Info("reading environment variable")

	env := envVars{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	configPath := env.ConfigYAML

	cfg := &Cfg{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, ErrConfigIsDir
	}

	configFile, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configFile, cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate runs go-playground/validator over cfg, naming fields after their
// yaml tag rather than the Go field name in any returned error.
func validate(cfg *Cfg) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v.Struct(cfg)
}
