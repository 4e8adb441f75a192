// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	defaultConfigDir = "./config"
)

// MustLoad loads and validates configuration from a YAML file based on the ENVIRONMENT variable.
// The files must be named in the format ${ENVIRONMENT}.yaml and located in the config directory
// at the root of the project (override with the CONFIG_DIR variable).
//
// The configuration struct should use `yaml` struct tags to map fields to the YAML file structure.
//
// Default values for configuration fields can be set using the `default` struct tag. These values
// are applied before validation if the corresponding fields are not explicitly defined in the YAML file.
//
// Validations are done using the go-playground/validator package.
// See https://pkg.go.dev/github.com/go-playground/validator/v10 for more information.
//
// Fields tagged `mask:"true"` are masked when the loaded config is printed.
//
// Example:
//
//	type Config struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" default:"8080"`
//	    Password string `yaml:"password" mask:"true"`
//	}
//
// Any failure terminates the process: configuration errors are unrecoverable at startup.
func MustLoad[T any](opts ...Option) T {
	var config T

	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(config).Kind() == reflect.Ptr {
		fail("type argument must not be a pointer")
	}

	// Missing .env is fine; environment variables may come from elsewhere.
	_ = godotenv.Load()

	env := defineEnvironment()

	data := readConfigFile(buildConfigPath(env))

	// Expand ${VAR} references inside the YAML before parsing.
	data = []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(data, &config); err != nil {
		fail(fmt.Sprintf("failed to unmarshal %s config file: %v", env, err))
	}

	if err := defaults.Set(&config); err != nil {
		fail(fmt.Sprintf("failed to set default values for config: %s", err))
	}

	validateConfig(&config, env)

	if !o.Silent {
		printConfig(config)
	}

	return config
}

// fail logs a startup configuration error and terminates the process.
func fail(msg string) {
	slog.Error("[cfgloader]: " + msg)
	os.Exit(1)
}

func defineEnvironment() string {
	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		fail("ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test")
	}
	return env
}

func buildConfigPath(env string) string {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = defaultConfigDir
	}
	return filepath.Join(dir, env+".yaml")
}

func readConfigFile(path string) []byte {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fail(fmt.Sprintf(
			"config file not found in the path %s - Make sure that the yaml file exists for each environment",
			path,
		))
	}
	if err != nil {
		fail(fmt.Sprintf("failed to read config file %s: %v", path, err))
	}

	return data
}

func validateConfig(config any, env string) {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(config)
	if err == nil {
		return
	}

	failedFields := make([]string, 0)

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, fieldErr := range errs {
			rule := fieldErr.Tag()
			if fieldErr.Param() != "" {
				rule += "=" + fieldErr.Param()
			}
			failedFields = append(failedFields, fmt.Sprintf("%s: %s", fieldErr.Namespace(), rule))
		}
	}

	if len(failedFields) > 0 {
		fail(fmt.Sprintf("invalid fields in %s config -> %s", env, strings.Join(failedFields, ",  ")))
	}
}
