package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/iconmapsync/internal/config"
)

func TestLogLevelFlag(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var f logLevelFlag
			if assert.NoError(t, f.Set(tc.in)) {
				assert.Equal(t, tc.want, f.value)
				assert.Equal(t, tc.want.String(), f.String())
			}
		})
	}
	t.Run("should report error for unknown level", func(t *testing.T) {
		var f logLevelFlag
		assert.Error(t, f.Set("verbose"))
	})
}

func TestAppDirs(t *testing.T) {
	t.Run("can create log file path", func(t *testing.T) {
		ad := appDirs{log: filepath.Join(t.TempDir(), "logs")}
		fn, err := ad.initLogFile()
		if assert.NoError(t, err) {
			assert.Equal(t, filepath.Join(ad.log, logFileName), fn)
			assert.DirExists(t, ad.log)
		}
	})
	t.Run("should report missing config file", func(t *testing.T) {
		ad := appDirs{config: t.TempDir()}
		_, found, err := ad.configFile()
		if assert.NoError(t, err) {
			assert.False(t, found)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("should return defaults when there is no config file", func(t *testing.T) {
		ad := appDirs{config: t.TempDir()}
		cfg, err := loadConfig(ad)
		if assert.NoError(t, err) {
			assert.Equal(t, config.Default(), cfg)
		}
	})
	t.Run("should use config file from config directory", func(t *testing.T) {
		// given
		ad := appDirs{config: t.TempDir()}
		p := filepath.Join(ad.config, configFileName)
		require.NoError(t, os.WriteFile(p, []byte("iconmap_path: web/IconMap.js\n"), 0o644))
		// when
		cfg, err := loadConfig(ad)
		// then
		if assert.NoError(t, err) {
			assert.Equal(t, "web/IconMap.js", cfg.IconMapPath)
		}
	})
	t.Run("should report invalid config", func(t *testing.T) {
		// given
		ad := appDirs{config: t.TempDir()}
		p := filepath.Join(ad.config, configFileName)
		require.NoError(t, os.WriteFile(p, []byte("sheet_url: \"\"\n"), 0o644))
		// when
		_, err := loadConfig(ad)
		// then
		assert.ErrorIs(t, err, config.ErrInvalid)
	})
}
