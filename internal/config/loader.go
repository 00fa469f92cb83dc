package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	perrors "github.com/matzehuels/provgraph/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "PROVGRAPH_"

// DefaultFiles are searched in the working directory when no file is given.
var DefaultFiles = []string{"provgraph.yaml", "provgraph.yml"}

// flagKeys maps command-line flags onto configuration keys. Flags not
// listed here are not configuration.
var flagKeys = map[string]string{
	"graph":          "graph",
	"verbose":        "verbose",
	"grid":           "layout.grid",
	"column-spacing": "layout.column_spacing",
	"row-spacing":    "layout.row_spacing",
	"collapse":       "view.collapsed",
	"addr":           "server.addr",
	"watch":          "server.watch",
	"max-sessions":   "server.max_sessions",
	"no-cache":       "cache.disabled",
	"cache-dir":      "cache.dir",
	"redis-addr":     "cache.redis_addr",
	"cache-ttl":      "cache.ttl",
}

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{
	"view.collapsed":   true,
	"view.pan_buttons": true,
}

// Load resolves the configuration. path names an explicit YAML file; when
// empty the [DefaultFiles] are tried. flags may be nil. The second return
// value is the file that was read, if any.
func Load(path string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", perrors.Wrap(perrors.ErrCodeInternal, err, "load defaults")
	}

	used, err := findFile(path)
	if err != nil {
		return nil, "", err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read config file %s", used)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, "", perrors.Wrap(perrors.ErrCodeInternal, err, "load environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", perrors.Wrap(perrors.ErrCodeInternal, err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// envKey maps PROVGRAPH_LAYOUT_COLUMN_SPACING to layout.column_spacing.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return key, items
}

func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s", explicit)
			}
			return "", perrors.Wrap(perrors.ErrCodeInvalidPath, err, "config file %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}
