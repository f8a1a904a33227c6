package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
)

// Config keys. Each can be set in flowgrid.toml, as FLOWGRID_<KEY> in the
// environment with dots replaced by underscores, or by the bound flag.
const (
	keySize           = "generate.size"
	keyProductionRate = "generate.production_rate"
	keyNodes          = "generate.nodes"
	keySinks          = "generate.sinks"
	keyRedisURL       = "cache.redis_url"
	keyServeAddr      = "serve.addr"
)

const defaultServeAddr = "127.0.0.1:8080"

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(appName)
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := grid.DefaultParams()
	v.SetDefault(keySize, def.Size)
	v.SetDefault(keyProductionRate, def.ProductionRate)
	v.SetDefault(keyNodes, def.NodeCount)
	v.SetDefault(keySinks, def.SinkCount)
	v.SetDefault(keyRedisURL, "")
	v.SetDefault(keyServeAddr, defaultServeAddr)
	return v
}

// loadConfig reads the config file. A missing default config is fine; a
// missing or broken file named by --config is not.
func (c *CLI) loadConfig() error {
	if c.configFile != "" {
		c.config.SetConfigFile(c.configFile)
	}
	if err := c.config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	c.Logger.Debug("loaded config", "file", c.config.ConfigFileUsed())
	return nil
}

// bindFlags binds config keys to the named flags so that explicitly set
// flags win over the config file and environment.
func (c *CLI) bindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for key, name := range bindings {
		if f := flags.Lookup(name); f != nil {
			_ = c.config.BindPFlag(key, f)
		}
	}
}

// generateParams resolves generation parameters from flags, environment,
// config file and defaults, in that order. A value that does not parse as
// a number is an INVALID_PARAMS error rather than a silent zero.
func (c *CLI) generateParams() (grid.Params, error) {
	var (
		p   grid.Params
		err error
	)
	if p.Size, err = c.configFloat(keySize); err != nil {
		return p, err
	}
	if p.ProductionRate, err = c.configInt(keyProductionRate); err != nil {
		return p, err
	}
	if p.NodeCount, err = c.configInt(keyNodes); err != nil {
		return p, err
	}
	if p.SinkCount, err = c.configInt(keySinks); err != nil {
		return p, err
	}
	return p, nil
}

func (c *CLI) configInt(key string) (int, error) {
	raw := c.config.Get(key)
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, ferrors.New(ferrors.ErrCodeInvalidParams, "invalid %s %q", key, fmt.Sprint(raw))
	}
	return n, nil
}

func (c *CLI) configFloat(key string) (float64, error) {
	raw := c.config.Get(key)
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, ferrors.New(ferrors.ErrCodeInvalidParams, "invalid %s %q", key, fmt.Sprint(raw))
	}
	return f, nil
}
