package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/shroud"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shroud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "*", cfg.Mask.DefaultChar)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, shroud.LogModeCopy, cfg.LogMode())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
mask:
  default_char: "#"
log:
  level: debug
  format: console
  mode: label
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, '#', cfg.MaskChar())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Zap().Format)
	assert.Equal(t, shroud.LogModeLabel, cfg.LogMode())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("SHROUD_LOG_LEVEL", "warn")
	t.Setenv("SHROUD_MASK_DEFAULT_CHAR", "x")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 'x', cfg.MaskChar())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"multi-char mask", "mask:\n  default_char: \"##\"\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"bad mode", "log:\n  mode: mutate\n"},
		{"half authz", "authz:\n  model_path: model.conf\n"},
		{"bad yaml", "log: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestConfig_IndexOptions(t *testing.T) {
	path := writeConfig(t, "mask:\n  default_char: \"#\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	type secret struct {
		Value string `sensitive:""`
	}
	idx := shroud.NewIndex(cfg.IndexOptions()...)
	fields := idx.Fields(reflect.TypeOf(secret{}))
	require.Len(t, fields, 1)
	assert.Equal(t, "######", fields[0].Descriptor.Mask("secret"))

	red := cfg.LogRedactor(idx).Redact(secret{Value: "abc"})
	assert.Equal(t, "secret{Value:###}", red.(*shroud.Redacted).String())
}

func TestConfig_Expander(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	e, err := cfg.Expander()
	require.NoError(t, err)
	assert.Nil(t, e)

	cfg.Authz = AuthzConfig{ModelPath: "/nonexistent/model.conf", PolicyPath: "/nonexistent/policy.csv"}
	_, err = cfg.Expander()
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log.level", envKey("SHROUD_LOG_LEVEL"))
	assert.Equal(t, "mask.default_char", envKey("SHROUD_MASK_DEFAULT_CHAR"))
	assert.Equal(t, "authz.policy_path", envKey("SHROUD_AUTHZ_POLICY_PATH"))
}
