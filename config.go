package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	Listen            string  `json:"listen"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	ObstacleDir       string  `json:"obstacle_dir,omitempty"`       //nolint:tagliatelle // snake_case for config file
	BitmapFile        string  `json:"bitmap_file,omitempty"`        //nolint:tagliatelle // snake_case for config file
	BitmapThreshold   int     `json:"bitmap_threshold,omitempty"`   //nolint:tagliatelle // snake_case for config file
	SnapshotFile      string  `json:"snapshot_file,omitempty"`      //nolint:tagliatelle // snake_case for config file
	SimplifyTolerance float64 `json:"simplify_tolerance,omitempty"` //nolint:tagliatelle // snake_case for config file
	MaxCells          int     `json:"max_cells,omitempty"`          //nolint:tagliatelle // snake_case for config file
}

// ConfigFileName is the default config file name.
const ConfigFileName = "planner.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Listen:          ":8080",
		Width:           64,
		Height:          64,
		BitmapThreshold: DefaultBitmapThreshold,
		SnapshotFile:    "grid_snapshot.json",
		MaxCells:        DefaultMaxCells,
	}
}

// ParseFlags builds the configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Config file (--config, or planner.json in the working directory if present)
// 3. Command-line flags that were explicitly set.
func ParseFlags(args []string) (Config, error) {
	flags := pflag.NewFlagSet("grid-planner", pflag.ContinueOnError)

	var overrides Config
	configPath := flags.StringP("config", "c", "", "path to a JSONC config file")
	flags.StringVar(&overrides.Listen, "listen", "", "HTTP listen address")
	flags.IntVar(&overrides.Width, "width", 0, "grid width in cells")
	flags.IntVar(&overrides.Height, "height", 0, "grid height in cells")
	flags.StringVar(&overrides.ObstacleDir, "obstacles", "", "directory of GeoJSON obstacle files")
	flags.StringVar(&overrides.BitmapFile, "bitmap", "", "image whose dark pixels mark blocked cells")
	flags.IntVar(&overrides.BitmapThreshold, "threshold", 0, "grey level below which a pixel is blocked")
	flags.StringVar(&overrides.SnapshotFile, "snapshot", "", "grid snapshot file to load and save")
	flags.Float64Var(&overrides.SimplifyTolerance, "simplify", 0, "Douglas-Peucker tolerance for obstacle polygons")
	flags.IntVar(&overrides.MaxCells, "max-cells", 0, "largest grid (width*height) accepted, 0 for no cap")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	path, mustExist := *configPath, true
	if path == "" {
		path, mustExist = ConfigFileName, false
	}

	cfg, err := LoadConfig(path, mustExist)
	if err != nil {
		return Config{}, err
	}

	if flags.Changed("listen") {
		cfg.Listen = overrides.Listen
	}
	if flags.Changed("width") {
		cfg.Width = overrides.Width
	}
	if flags.Changed("height") {
		cfg.Height = overrides.Height
	}
	if flags.Changed("obstacles") {
		cfg.ObstacleDir = overrides.ObstacleDir
	}
	if flags.Changed("bitmap") {
		cfg.BitmapFile = overrides.BitmapFile
	}
	if flags.Changed("threshold") {
		cfg.BitmapThreshold = overrides.BitmapThreshold
	}
	if flags.Changed("snapshot") {
		cfg.SnapshotFile = overrides.SnapshotFile
	}
	if flags.Changed("simplify") {
		cfg.SimplifyTolerance = overrides.SimplifyTolerance
	}
	if flags.Changed("max-cells") {
		cfg.MaxCells = overrides.MaxCells
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a config file over the defaults. If mustExist is false, a
// missing file yields the defaults.
func LoadConfig(path string, mustExist bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return Config{}, fmt.Errorf("%w: %s", errConfigFileRead, path)
	}

	fileCfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return mergeConfig(cfg, fileCfg), nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if cfg.Width < 0 || cfg.Height < 0 {
		return Config{}, fmt.Errorf("%w: %dx%d", errInvalidDimensions, cfg.Width, cfg.Height)
	}
	if cfg.BitmapThreshold < 0 {
		return Config{}, errThresholdRange
	}
	if cfg.MaxCells < 0 {
		return Config{}, errMaxCellsNegative
	}

	// Zero width/height is a legal grid, so keep explicit zeros apart from omissions
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if _, exists := raw["width"]; !exists {
		cfg.Width = -1
	}
	if _, exists := raw["height"]; !exists {
		cfg.Height = -1
	}
	if _, exists := raw["bitmap_threshold"]; !exists {
		cfg.BitmapThreshold = -1
	}
	if _, exists := raw["max_cells"]; !exists {
		cfg.MaxCells = -1
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Listen != "" {
		base.Listen = overlay.Listen
	}
	if overlay.Width >= 0 {
		base.Width = overlay.Width
	}
	if overlay.Height >= 0 {
		base.Height = overlay.Height
	}
	if overlay.ObstacleDir != "" {
		base.ObstacleDir = overlay.ObstacleDir
	}
	if overlay.BitmapFile != "" {
		base.BitmapFile = overlay.BitmapFile
	}
	if overlay.BitmapThreshold >= 0 {
		base.BitmapThreshold = overlay.BitmapThreshold
	}
	if overlay.SnapshotFile != "" {
		base.SnapshotFile = overlay.SnapshotFile
	}
	if overlay.SimplifyTolerance != 0 {
		base.SimplifyTolerance = overlay.SimplifyTolerance
	}
	if overlay.MaxCells >= 0 {
		base.MaxCells = overlay.MaxCells
	}
	return base
}

func validateConfig(cfg Config) error {
	if cfg.Listen == "" {
		return errListenEmpty
	}
	if cfg.MaxCells < 0 {
		return errMaxCellsNegative
	}
	if err := checkDimensions(cfg.Width, cfg.Height, cfg.MaxCells); err != nil {
		return err
	}
	if cfg.BitmapThreshold < 0 || cfg.BitmapThreshold > 255 {
		return errThresholdRange
	}
	if cfg.SimplifyTolerance < 0 {
		return errToleranceNegative
	}
	return nil
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
