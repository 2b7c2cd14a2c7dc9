package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. ASSETUPLOADER_S3_REGION.
	EnvPrefix = "ASSETUPLOADER"

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultBaseDir is the directory relative source paths resolve from.
	DefaultBaseDir = "."

	// DefaultRegion is the region used when none is configured.
	DefaultRegion = "us-east-1"
)

// Config is the root configuration for assetuploader.
type Config struct {
	Global GlobalConfig `yaml:"global" mapstructure:"global"`
	S3     S3Config     `yaml:"s3" mapstructure:"s3"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	BaseDir  string `yaml:"base_dir" mapstructure:"base_dir"`
}

// S3Config contains connection settings for the object store. The target
// bucket is fixed at build time and is not part of the configuration.
type S3Config struct {
	Region          string `yaml:"region" mapstructure:"region"`
	EndpointURL     string `yaml:"endpoint_url,omitempty" mapstructure:"endpoint_url"`
	ForcePathStyle  bool   `yaml:"force_path_style" mapstructure:"force_path_style"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" mapstructure:"secret_access_key"`
}

// HasStaticCredentials reports whether both static credential fields are set.
func (c *S3Config) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// Load reads the given YAML files in order, later files overriding earlier
// ones, then applies environment overrides and defaults. With no paths only
// defaults and the environment are used.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if i == 0 {
			err = v.ReadConfig(f)
		} else {
			err = v.MergeConfig(f)
		}

		_ = f.Close()

		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// setDefaults registers every key with viper so environment overrides
// apply even when the key is absent from the files.
func setDefaults(v *viper.Viper) {
	v.SetDefault("global.log_level", DefaultLogLevel)
	v.SetDefault("global.base_dir", DefaultBaseDir)
	v.SetDefault("s3.region", DefaultRegion)
	v.SetDefault("s3.endpoint_url", "")
	v.SetDefault("s3.force_path_style", false)
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
}

// applyDefaults sets default values for options explicitly set to empty.
func (c *Config) applyDefaults() {
	if c.Global.LogLevel == "" {
		c.Global.LogLevel = DefaultLogLevel
	}

	if c.Global.BaseDir == "" {
		c.Global.BaseDir = DefaultBaseDir
	}

	if c.S3.Region == "" {
		c.S3.Region = DefaultRegion
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Global.LogLevel); err != nil {
		return fmt.Errorf("global.log_level: %w", err)
	}

	info, err := os.Stat(c.Global.BaseDir)
	if err != nil {
		return fmt.Errorf("global.base_dir %q: %w", c.Global.BaseDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("global.base_dir %q is not a directory", c.Global.BaseDir)
	}

	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("s3: access_key_id and secret_access_key must be set together")
	}

	return nil
}

// Redacted returns a copy of the configuration safe for printing.
func (c *Config) Redacted() *Config {
	out := *c
	if out.S3.SecretAccessKey != "" {
		out.S3.SecretAccessKey = "********"
	}

	return &out
}
