package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-saw-monitor/internal/core/constants"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Ordering names accepted by sort_order.
const (
	OrderTimeOfDay = "time_of_day"
	OrderTimestamp = "timestamp"
)

// Cycle policies accepted by cycle_policy.
const (
	PolicyCloseOnTransition = "close-on-transition-only"
	PolicyCloseAtEnd        = "close-at-end"
)

const envPrefix = "SAWMON"

// SourceConfig describes one input log of a dataset folder.
type SourceConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	DateColumn string `mapstructure:"date_column" yaml:"date_column"`
	TimeColumn string `mapstructure:"time_column" yaml:"time_column"`
	// Fields maps a canonical column to the accepted source column names.
	// The first name present in the file header wins.
	Fields map[string][]string `mapstructure:"fields" yaml:"fields"`
}

// Sources groups the three input logs.
type Sources struct {
	Current SourceConfig `mapstructure:"current" yaml:"current"`
	Laser   SourceConfig `mapstructure:"laser" yaml:"laser"`
	Speed   SourceConfig `mapstructure:"speed" yaml:"speed"`
}

// Get returns the configuration of a source kind.
func (s Sources) Get(kind model.SourceKind) SourceConfig {
	switch kind {
	case model.SourceLaser:
		return s.Laser
	case model.SourceSpeed:
		return s.Speed
	default:
		return s.Current
	}
}

// Config is the effective application configuration.
type Config struct {
	BaseDir          string   `mapstructure:"base_dir" yaml:"base_dir"`
	Sources          Sources  `mapstructure:"sources" yaml:"sources"`
	DateLayouts      []string `mapstructure:"date_layouts" yaml:"date_layouts"`
	ExportFile       string   `mapstructure:"export_file" yaml:"export_file"`
	FilteredFile     string   `mapstructure:"filtered_file" yaml:"filtered_file"`
	CycleFilePattern string   `mapstructure:"cycle_file_pattern" yaml:"cycle_file_pattern"`
	FolderLimit      int      `mapstructure:"folder_limit" yaml:"folder_limit"`
	SortOrder        string   `mapstructure:"sort_order" yaml:"sort_order"`
	CyclePolicy      string   `mapstructure:"cycle_policy" yaml:"cycle_policy"`
	Output           string   `mapstructure:"output" yaml:"output"`
	LogLevel         string   `mapstructure:"log_level" yaml:"log_level"`
	LogFile          string   `mapstructure:"log_file" yaml:"log_file"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		BaseDir: ".",
		Sources: Sources{
			Current: SourceConfig{
				File:       "Corr.txt",
				DateColumn: "Fecha",
				TimeColumn: "Hora",
				Fields: map[string][]string{
					model.ColCurrent: {"Corriente"},
				},
			},
			Laser: SourceConfig{
				File:       "registro_laser.txt",
				DateColumn: "Fecha",
				TimeColumn: "Hora",
				Fields: map[string][]string{
					model.ColTemperature: {"Temperatura(ºC)", "Temperatura(°C)"},
					model.ColDistance:    {"Distancia(mm)"},
					model.ColWoodPresent: {"Madera"},
				},
			},
			Speed: SourceConfig{
				File:       "Velocidad.txt",
				DateColumn: "Date",
				TimeColumn: "Time",
				Fields: map[string][]string{
					model.ColSpeedMs: {"Milliseconds"},
				},
			},
		},
		DateLayouts:      []string{"2006-01-02", "2006/01/02", "02/01/2006", "02-01-2006"},
		ExportFile:       "datos_exportados.txt",
		FilteredFile:     "datos_filtrados.txt",
		CycleFilePattern: "datos_ciclo_%d.txt",
		FolderLimit:      constants.DefaultFolderLimit,
		SortOrder:        OrderTimeOfDay,
		CyclePolicy:      PolicyCloseOnTransition,
		Output:           "table",
		LogLevel:         "info",
		LogFile:          "~/.go-saw-monitor/logs/app.log",
	}
}

// DefaultConfigPath is where Load looks when no explicit file is given.
func DefaultConfigPath() string {
	return ExpandPath("~/.go-saw-monitor/config.yaml")
}

// SetDefaults registers every key of Default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("base_dir", d.BaseDir)
	for _, kind := range model.SourceKinds {
		src := d.Sources.Get(kind)
		prefix := "sources." + string(kind) + "."
		v.SetDefault(prefix+"file", src.File)
		v.SetDefault(prefix+"date_column", src.DateColumn)
		v.SetDefault(prefix+"time_column", src.TimeColumn)
		v.SetDefault(prefix+"fields", src.Fields)
	}
	v.SetDefault("date_layouts", d.DateLayouts)
	v.SetDefault("export_file", d.ExportFile)
	v.SetDefault("filtered_file", d.FilteredFile)
	v.SetDefault("cycle_file_pattern", d.CycleFilePattern)
	v.SetDefault("folder_limit", d.FolderLimit)
	v.SetDefault("sort_order", d.SortOrder)
	v.SetDefault("cycle_policy", d.CyclePolicy)
	v.SetDefault("output", d.Output)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// Load reads configuration into v and decodes it. An explicit path must
// exist; when path is empty the default location is tried and silently
// skipped if absent. Environment variables prefixed with SAWMON_ override
// file values.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || os.IsNotExist(err) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.BaseDir = ExpandPath(cfg.BaseDir)
	cfg.LogFile = ExpandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that the pipeline cannot recover from.
func (c *Config) Validate() error {
	for _, kind := range model.SourceKinds {
		src := c.Sources.Get(kind)
		if src.File == "" {
			return fmt.Errorf("sources.%s.file must not be empty", kind)
		}
		if src.DateColumn == "" || src.TimeColumn == "" {
			return fmt.Errorf("sources.%s requires date_column and time_column", kind)
		}
		for col := range src.Fields {
			if !model.IsCanonicalColumn(col) {
				return fmt.Errorf("sources.%s.fields: unknown canonical column %q", kind, col)
			}
		}
	}
	if len(c.DateLayouts) == 0 {
		return fmt.Errorf("date_layouts must not be empty")
	}
	if c.ExportFile == "" || c.FilteredFile == "" {
		return fmt.Errorf("export_file and filtered_file must not be empty")
	}
	if c.ExportFile == c.FilteredFile {
		return fmt.Errorf("export_file and filtered_file must differ")
	}
	if !strings.Contains(c.CycleFilePattern, "%d") {
		return fmt.Errorf("cycle_file_pattern must contain %%d")
	}
	if c.FolderLimit < 0 {
		return fmt.Errorf("folder_limit must not be negative")
	}
	switch c.SortOrder {
	case OrderTimeOfDay, OrderTimestamp:
	default:
		return fmt.Errorf("invalid sort_order %q: must be %s or %s", c.SortOrder, OrderTimeOfDay, OrderTimestamp)
	}
	switch c.CyclePolicy {
	case PolicyCloseOnTransition, PolicyCloseAtEnd:
	default:
		return fmt.Errorf("invalid cycle_policy %q: must be %s or %s", c.CyclePolicy, PolicyCloseOnTransition, PolicyCloseAtEnd)
	}
	return nil
}

// ExportPath is the canonical table file inside the base directory.
func (c *Config) ExportPath() string {
	return filepath.Join(c.BaseDir, c.ExportFile)
}

// FilteredPath is the filtered view file inside the base directory.
func (c *Config) FilteredPath() string {
	return filepath.Join(c.BaseDir, c.FilteredFile)
}

// CyclePath is the window sub-table file of cycle n inside the base directory.
func (c *Config) CyclePath(n int) string {
	return filepath.Join(c.BaseDir, fmt.Sprintf(c.CycleFilePattern, n))
}

// WriteDefault writes the default configuration as YAML. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ExpandPath resolves a leading "~/" and makes the path absolute.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
