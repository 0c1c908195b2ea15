package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// isolate clears every exporter variable and hides real config files.
func isolate(t *testing.T) {
	t.Helper()
	for _, b := range bindings {
		for _, env := range b.envs {
			t.Setenv(env, "")
		}
	}
	t.Setenv("HOME", t.TempDir())
	prev := SystemConfigDir
	SystemConfigDir = t.TempDir()
	t.Cleanup(func() { SystemConfigDir = prev })
}

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("journal-exporter", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(parseFlags(t))
	require.NoError(t, err)
	cfg.File = ""
	assert.Equal(t, DefaultConfig(), cfg)

	rc, err := cfg.RunConfig()
	require.NoError(t, err)
	assert.Equal(t, RunConfig{
		MinPriority:  journal.PriorityInfo,
		LogLevel:     "info",
		LogFormat:    "console",
		Output:       "text",
		WaitInterval: time.Second,
	}, rc)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
journal:
  target: file.service
  exported_log_level: notice
logging:
  level: error
`)
	t.Setenv("EXPORTER_CONFIG", path)

	cfg, err := Load(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "file.service", cfg.Journal.Target)
	assert.Equal(t, "notice", cfg.Journal.ExportedLogLevel)
	assert.Equal(t, "error", cfg.Logging.Level)

	t.Setenv("EXPORTER_SYSTEMD_TARGET", "env.service")
	cfg, err = Load(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "env.service", cfg.Journal.Target)
	assert.Equal(t, "notice", cfg.Journal.ExportedLogLevel)

	cfg, err = Load(parseFlags(t, "-t", "flag.service", "-l", "ERR"))
	require.NoError(t, err)
	assert.Equal(t, "flag.service", cfg.Journal.Target)
	assert.Equal(t, "ERR", cfg.Journal.ExportedLogLevel)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadExplicitConfigFlagOverridesEnv(t *testing.T) {
	isolate(t)
	fromEnv := writeFile(t, "journal:\n  target: env-file.service\n")
	fromFlag := writeFile(t, "journal:\n  target: flag-file.service\n")
	t.Setenv("EXPORTER_CONFIG", fromEnv)

	cfg, err := Load(parseFlags(t, "--config", fromFlag))
	require.NoError(t, err)
	assert.Equal(t, "flag-file.service", cfg.Journal.Target)
}

func TestLoadDefaultPathFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(SystemConfigDir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadLegacyLogLevelEnv(t *testing.T) {
	isolate(t)

	t.Setenv("EXPORTER_PYTHON_LOG_LEVEL", "debug")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv("EXPORTER_LOG_LEVEL", "warn")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLegacyCriticalLogLevelMapsToError(t *testing.T) {
	isolate(t)

	t.Setenv("EXPORTER_PYTHON_LOG_LEVEL", "CRITICAL")
	cfg, err := Load(nil)
	require.NoError(t, err)

	rc, err := cfg.RunConfig()
	require.NoError(t, err)
	assert.Equal(t, "error", rc.LogLevel)
}

func TestLoadWaitInterval(t *testing.T) {
	isolate(t)

	t.Setenv("EXPORTER_WAIT_INTERVAL", "250ms")
	cfg, err := Load(parseFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Journal.WaitInterval)

	cfg, err = Load(parseFlags(t, "--wait-interval", "2s"))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Journal.WaitInterval)
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	isolate(t)
	path := writeFile(t, "journal:\n  unit: api.service\n")

	_, err := Load(parseFlags(t, "-c", path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(parseFlags(t, "-c", filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "")

	cfg, err := Load(parseFlags(t, "-c", path))
	require.NoError(t, err)
	assert.Equal(t, DefaultExportedLogLevel, cfg.Journal.ExportedLogLevel)
}

func TestRunConfigIsIdempotent(t *testing.T) {
	isolate(t)
	t.Setenv("EXPORTER_SYSTEMD_LOG_LEVEL", "warning")
	t.Setenv("EXPORTER_LOG_FORMAT", "JSON")
	args := []string{"--target", " api.service ", "--log-level", "Warning"}

	var got []RunConfig
	for i := 0; i < 3; i++ {
		cfg, err := Load(parseFlags(t, args...))
		require.NoError(t, err)
		rc, err := cfg.RunConfig()
		require.NoError(t, err)
		got = append(got, rc)
	}

	assert.Equal(t, got[0], got[1])
	assert.Equal(t, got[1], got[2])
	assert.Equal(t, RunConfig{
		Unit:         "api.service",
		MinPriority:  journal.PriorityWarning,
		LogLevel:     "warn",
		LogFormat:    "json",
		Output:       "text",
		WaitInterval: time.Second,
	}, got[0])
	assert.Equal(t, journal.Config{MinPriority: journal.PriorityWarning, Unit: "api.service"}, got[0].JournalConfig())
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a-file")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr int
		check   func(t *testing.T, errs []error)
	}{
		{"defaults", func(*Config) {}, 0, nil},
		{"alias severity", func(c *Config) { c.Journal.ExportedLogLevel = "critical" }, 0, nil},
		{"journal dir", func(c *Config) { c.Journal.Dir = dir }, 0, nil},
		{"unknown severity", func(c *Config) { c.Journal.ExportedLogLevel = "LOUD" }, 1, func(t *testing.T, errs []error) {
			assert.Equal(t, errors.CodeValidation, errors.GetErrorCode(errs[0]))
			assert.Contains(t, errs[0].Error(), "unsupported severity name")
		}},
		{"blank unit", func(c *Config) { c.Journal.Target = "   " }, 1, func(t *testing.T, errs []error) {
			assert.Contains(t, errs[0].Error(), "unsupported filter value")
		}},
		{"unit with equals", func(c *Config) { c.Journal.Target = "a=b" }, 1, nil},
		{"unit with newline", func(c *Config) { c.Journal.Target = "api\n.service" }, 1, nil},
		{"missing dir", func(c *Config) { c.Journal.Dir = filepath.Join(dir, "missing") }, 1, nil},
		{"dir is a file", func(c *Config) { c.Journal.Dir = file }, 1, nil},
		{"zero wait", func(c *Config) { c.Journal.WaitInterval = 0 }, 1, nil},
		{"long wait", func(c *Config) { c.Journal.WaitInterval = 2 * time.Minute }, 1, nil},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, 1, func(t *testing.T, errs []error) {
			var ve ValidationError
			require.ErrorAs(t, errs[0], &ve)
			assert.Equal(t, "logging.level", ve.Path)
		}},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, 1, nil},
		{"bad output", func(c *Config) { c.Output.Format = "csv" }, 1, nil},
		{"everything wrong", func(c *Config) {
			c.Journal.ExportedLogLevel = "x"
			c.Logging.Level = "x"
			c.Logging.Format = "x"
			c.Output.Format = "x"
		}, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, tt.wantErr, "errors: %v", errs)
			for _, err := range errs {
				assert.True(t, errors.IsValidation(err), "%v should be a validation error", err)
			}
			if tt.check != nil {
				tt.check(t, errs)
			}
		})
	}
}

func TestRunConfigCombinesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Output.Format = "csv"

	_, err := cfg.RunConfig()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "output.format")
}

func TestExampleConfigIsValid(t *testing.T) {
	isolate(t)

	cfg, err := Load(parseFlags(t, "-c", filepath.Join("..", "..", "examples", "config.yaml")))
	require.NoError(t, err)
	assert.Equal(t, "api.service", cfg.Journal.Target)
	assert.Empty(t, cfg.Validate())
}
