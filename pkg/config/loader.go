package config

import (
	"os"
	"strings"

	burnt "github.com/BurntSushi/toml"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
// WINDEPLOY_TIMEOUTS_APPLY maps to timeouts.apply.
const EnvPrefix = "WINDEPLOY_"

// Default returns the configuration with every default applied
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to set configuration defaults")
	}
	return &cfg, nil
}

// Load builds the configuration from, lowest priority first, struct
// defaults, the TOML file at path and WINDEPLOY_ environment variables.
//
// An empty path means the user config file in the XDG config directory,
// which is optional. An explicit path must exist.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = paths.New().ConfigFile()
	}

	k := koanf.New(".")

	if _, statErr := os.Stat(path); statErr == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
		}
		if unknown, err := UnknownKeys(path); err == nil {
			for _, key := range unknown {
				logger.Warn().Str("key", key).Str("path", path).Msg("Ignoring unknown configuration key")
			}
		}
		logger.Debug().Str("path", path).Msg("Loaded configuration file")
	} else if explicit {
		return nil, errors.Wrapf(statErr, errors.ErrConfigLoad, "config file %s not found", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate normalizes and checks a configuration
func Validate(cfg *Config) error {
	cfg.Letters.System = strings.ToUpper(strings.TrimSpace(cfg.Letters.System))
	cfg.Letters.Windows = strings.ToUpper(strings.TrimSpace(cfg.Letters.Windows))

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return nil
}

// UnknownKeys returns the keys in the TOML file at path that do not map to
// any configuration field
func UnknownKeys(path string) ([]string, error) {
	var probe Config
	md, err := burnt.DecodeFile(path, &probe)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	return keys, nil
}

// envKey maps WINDEPLOY_SECTION_SOME_KEY to section.some_key. Every setting
// lives exactly one table deep, so only the first underscore separates.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}
