package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// Config is the layered exporter configuration before validation.
type Config struct {
	Journal JournalConfig `yaml:"journal"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`

	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

// JournalConfig selects what is read from the journal.
type JournalConfig struct {
	Target           string        `yaml:"target"`             // systemd unit, empty for all
	ExportedLogLevel string        `yaml:"exported_log_level"` // lowest severity forwarded
	Dir              string        `yaml:"dir"`                // journal directory, empty for the system journal
	WaitInterval     time.Duration `yaml:"wait_interval"`      // upper bound of one blocking wait
}

// Defaults.
const (
	DefaultExportedLogLevel = "INFO"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultOutputFormat     = "text"
	DefaultWaitInterval     = time.Second
)

// Configuration keys, as they appear in the config file.
const (
	KeyTarget           = "journal.target"
	KeyExportedLogLevel = "journal.exported_log_level"
	KeyJournalDir       = "journal.dir"
	KeyWaitInterval     = "journal.wait_interval"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
	KeyOutputFormat     = "output.format"
	KeyConfigFile       = "config"
)

type binding struct {
	key   string
	flag  string
	envs  []string
	value interface{}
}

// bindings lists every setting with its flag, environment variables (first
// set wins) and default.
var bindings = []binding{
	{KeyTarget, "target", []string{"EXPORTER_SYSTEMD_TARGET"}, ""},
	{KeyExportedLogLevel, "exported-log-level", []string{"EXPORTER_SYSTEMD_LOG_LEVEL"}, DefaultExportedLogLevel},
	{KeyLogLevel, "log-level", []string{"EXPORTER_LOG_LEVEL", "EXPORTER_PYTHON_LOG_LEVEL"}, DefaultLogLevel},
	{KeyLogFormat, "log-format", []string{"EXPORTER_LOG_FORMAT"}, DefaultLogFormat},
	{KeyOutputFormat, "output", []string{"EXPORTER_OUTPUT"}, DefaultOutputFormat},
	{KeyJournalDir, "journal-dir", []string{"EXPORTER_JOURNAL_DIR"}, ""},
	{KeyWaitInterval, "wait-interval", []string{"EXPORTER_WAIT_INTERVAL"}, DefaultWaitInterval},
	{KeyConfigFile, "config", []string{"EXPORTER_CONFIG"}, ""},
}

// RegisterFlags defines the exporter's flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("target", "t", "", "systemd unit to export (default: all units)")
	fs.StringP("exported-log-level", "l", DefaultExportedLogLevel,
		"lowest journal severity to export: "+strings.Join(journal.PriorityNames(), ", "))
	fs.String("log-level", DefaultLogLevel, "exporter log level: debug, info, warn, error (critical is accepted as error)")
	fs.String("log-format", DefaultLogFormat, "exporter log format: console, json")
	fs.StringP("output", "o", DefaultOutputFormat, "output format for exported entries: text, json")
	fs.String("journal-dir", "", "read journal files from this directory instead of the system journal")
	fs.Duration("wait-interval", DefaultWaitInterval, "upper bound for one journal wait")
	fs.StringP("config", "c", "", "config file (default: "+SystemConfigDir+"/"+DefaultFileName+" or ~/.journal-exporter/"+DefaultFileName+")")
}

// Load resolves the configuration from flags, environment, config file and
// defaults, in that order of precedence. fs may be nil. Only flags that were
// set on the command line override lower layers.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for _, b := range bindings {
		v.SetDefault(b.key, b.value)
		if err := v.BindEnv(append([]string{b.key}, b.envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", b.key, err)
		}
		if fs == nil {
			continue
		}
		if f := fs.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", b.flag, err)
			}
		}
	}

	path := v.GetString(KeyConfigFile)
	explicit := path != ""
	if !explicit {
		path = DefaultPath(DefaultFileName)
	}
	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, err
		}
	}

	return &Config{
		Journal: JournalConfig{
			Target:           v.GetString(KeyTarget),
			ExportedLogLevel: v.GetString(KeyExportedLogLevel),
			Dir:              v.GetString(KeyJournalDir),
			WaitInterval:     v.GetDuration(KeyWaitInterval),
		},
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Output: OutputConfig{
			Format: v.GetString(KeyOutputFormat),
		},
		File: path,
	}, nil
}

// readFile checks the file strictly against Config and then layers it into v.
func readFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var strict Config
	if err := DecodeStrict(bytes.NewReader(data), &strict); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Journal: JournalConfig{
			ExportedLogLevel: DefaultExportedLogLevel,
			WaitInterval:     DefaultWaitInterval,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}
