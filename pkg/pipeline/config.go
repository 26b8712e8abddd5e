package pipeline

import (
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// LoadConfig decodes a TOML options file. Unknown keys are rejected so
// that typos like "max_segment" do not pass silently.
func LoadConfig(path string) (Options, error) {
	var opts Options
	if err := perrors.ValidatePath(path); err != nil {
		return opts, err
	}

	md, err := toml.DecodeFile(path, &opts)
	if errors.Is(err, fs.ErrNotExist) {
		return opts, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return opts, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return opts, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// DecodeConfig decodes TOML options from a string.
func DecodeConfig(data string) (Options, error) {
	var opts Options
	md, err := toml.Decode(data, &opts)
	if err != nil {
		return opts, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config key %s", undecoded[0])
	}
	return opts, nil
}

// Merge overlays the fields set in override onto o. Zero-valued fields of
// override keep o's value; axis entries are replaced per dimension.
func (o Options) Merge(override Options) Options {
	out := o
	out.validated = false
	if len(override.Dimensions) > 0 {
		out.Dimensions = override.Dimensions
	}
	if len(override.Axes) > 0 {
		axes := make(map[string]AxisOptions, len(o.Axes)+len(override.Axes))
		for k, v := range o.Axes {
			axes[k] = v
		}
		for k, v := range override.Axes {
			axes[k] = v
		}
		out.Axes = axes
	}
	if override.Width != 0 {
		out.Width = override.Width
	}
	if override.Height != 0 {
		out.Height = override.Height
	}
	if override.Tension != nil {
		out.Tension = override.Tension
	}
	if len(override.Formats) > 0 {
		out.Formats = override.Formats
	}
	if override.Title != "" {
		out.Title = override.Title
	}
	if override.Background != "" {
		out.Background = override.Background
	}
	if len(override.Palette) > 0 {
		out.Palette = override.Palette
	}
	if override.NoLabels {
		out.NoLabels = true
	}
	if override.MaxDepth != 0 {
		out.MaxDepth = override.MaxDepth
	}
	if override.Detailed {
		out.Detailed = true
	}
	if override.Scale != 0 {
		out.Scale = override.Scale
	}
	if override.Refresh {
		out.Refresh = true
	}
	if override.Logger != nil {
		out.Logger = override.Logger
	}
	return out
}
