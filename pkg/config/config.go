// Package config merges flags, environment, .env and the optional config
// file into combine.Options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codexml/pkg/combine"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CODEXML_OUTPUT_FILE.
	EnvPrefix = "CODEXML"
	// FileName is the config file searched for, without extension.
	FileName = ".codexml"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyInputDir    = "input-dir"
	KeyFiles       = "file"
	KeyOutputFile  = "output-file"
	KeyExtensions  = "ext"
	KeyIgnore      = "ignore"
	KeyOnReadError = "on-read-error"
	KeyVerbose     = "verbose"
)

// Config holds the resolved settings of one invocation.
type Config struct {
	InputDir    string   `mapstructure:"input-dir"`
	Files       []string `mapstructure:"file"`
	OutputFile  string   `mapstructure:"output-file"`
	Extensions  []string `mapstructure:"ext"`
	Ignore      []string `mapstructure:"ignore"`
	OnReadError string   `mapstructure:"on-read-error"`
	Verbose     bool     `mapstructure:"verbose"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// New returns a viper instance reading from fs with defaults, search paths
// and environment binding applied. Flags are bound by the caller.
func New(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "codexml"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{KeyInputDir, KeyFiles, KeyOutputFile, KeyExtensions, KeyIgnore, KeyOnReadError, KeyVerbose} {
		_ = v.BindEnv(key)
	}

	v.SetDefault(KeyExtensions, combine.DefaultExtensions)
	v.SetDefault(KeyOnReadError, string(combine.ReadPolicySkip))
	return v
}

// Load reads .env files and the config file into v and decodes the result.
// configFile, when set, must exist; otherwise a missing config file is fine.
func Load(v *viper.Viper, fs afero.Fs, configFile string) (*Config, error) {
	if err := loadDotEnv(fs, ".env"); err != nil {
		return nil, err
	}

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path %s: %w", configFile, err)
		}
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return &cfg, nil
}

// loadDotEnv sets variables from a .env file that are not already present
// in the environment, like godotenv.Load but through fs.
func loadDotEnv(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for key, value := range env {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the config into combine.Options, expanding '~' in paths.
func (c *Config) Options() (combine.Options, error) {
	policy, err := combine.ParseReadPolicy(c.OnReadError)
	if err != nil {
		return combine.Options{}, err
	}

	inputDir, err := expand(c.InputDir)
	if err != nil {
		return combine.Options{}, err
	}
	output, err := expand(c.OutputFile)
	if err != nil {
		return combine.Options{}, err
	}
	files := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		p, err := expand(f)
		if err != nil {
			return combine.Options{}, err
		}
		files = append(files, p)
	}

	return combine.Options{
		InputDir:   inputDir,
		Files:      files,
		Output:     output,
		Extensions: splitList(c.Extensions),
		Ignore:     splitList(c.Ignore),
		ReadPolicy: policy,
	}, nil
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return p, nil
}

// splitList flattens comma-separated entries, which is how lists arrive
// from environment variables.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
