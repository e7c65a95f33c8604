package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, paths.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "powershell.exe", cfg.Tools.PowerShell)
	assert.Equal(t, "diskpart.exe", cfg.Tools.DiskPart)
	assert.Equal(t, "dism.exe", cfg.Tools.DISM)
	assert.Equal(t, "bcdboot.exe", cfg.Tools.BCDBoot)

	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Query.Std())
	assert.Equal(t, 10*time.Minute, cfg.Timeouts.DiskPart.Std())
	assert.Equal(t, time.Duration(0), cfg.Timeouts.Apply.Std())
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.BCDBoot.Std())

	assert.Equal(t, "S", cfg.Letters.System)
	assert.Equal(t, "W", cfg.Letters.Windows)
	assert.False(t, cfg.Letters.Dynamic)

	assert.Equal(t, 100, cfg.Partitions.EFISizeMB)
	assert.Equal(t, 16, cfg.Partitions.MSRSizeMB)
	assert.True(t, cfg.Deploy.RevalidateIndex)
	assert.Empty(t, cfg.Deploy.ScratchDir)
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoad_UserFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
[tools]
dism = 'C:\Tools\dism.exe'

[timeouts]
apply = "3h"

[letters]
system = "r"
windows = "t"
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, `C:\Tools\dism.exe`, cfg.Tools.DISM)
	assert.Equal(t, "diskpart.exe", cfg.Tools.DiskPart, "unset keys keep defaults")
	assert.Equal(t, 3*time.Hour, cfg.Timeouts.Apply.Std())
	assert.Equal(t, "R", cfg.Letters.System)
	assert.Equal(t, "T", cfg.Letters.Windows)
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	other := t.TempDir()
	path := writeConfig(t, other, "[partitions]\nefi_size_mb = 260\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 260, cfg.Partitions.EFISizeMB)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[tools\ndism = ")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[timeouts]\napply = \"1h\"\n")

	t.Setenv("WINDEPLOY_TIMEOUTS_APPLY", "2h")
	t.Setenv("WINDEPLOY_DEPLOY_REVALIDATE_INDEX", "false")
	t.Setenv("WINDEPLOY_LETTERS_DYNAMIC", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Timeouts.Apply.Std(), "environment wins over the file")
	assert.False(t, cfg.Deploy.RevalidateIndex)
	assert.True(t, cfg.Letters.Dynamic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same letters", content: "[letters]\nsystem = \"W\"\nwindows = \"w\"\n"},
		{name: "two character letter", content: "[letters]\nsystem = \"SS\"\n"},
		{name: "digit letter", content: "[letters]\nwindows = \"1\"\n"},
		{name: "efi too small", content: "[partitions]\nefi_size_mb = 50\n"},
		{name: "msr zero", content: "[partitions]\nmsr_size_mb = 0\n"},
		{name: "msr too small", content: "[partitions]\nmsr_size_mb = 8\n"},
		{name: "negative timeout", content: "[timeouts]\nquery = \"-1m\"\n"},
		{name: "empty tool", content: "[tools]\nbcdboot = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeConfig(t, dir, tt.content)

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
		})
	}
}

func TestUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[tools]
dism = "dism.exe"
robocopy = "robocopy.exe"

[extras]
flag = true
`)

	keys, err := UnknownKeys(path)
	require.NoError(t, err)
	assert.Contains(t, keys, "tools.robocopy")
	assert.Contains(t, keys, "extras.flag")
	assert.NotContains(t, keys, "tools.dism")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "timeouts.apply", envKey("WINDEPLOY_TIMEOUTS_APPLY"))
	assert.Equal(t, "deploy.revalidate_index", envKey("WINDEPLOY_DEPLOY_REVALIDATE_INDEX"))
	assert.Equal(t, "partitions.efi_size_mb", envKey("WINDEPLOY_PARTITIONS_EFI_SIZE_MB"))
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestCommentOutConfigValues(t *testing.T) {
	input := "# header\n[tools]\ndism = 'dism.exe'\n\n  [letters]\n  system = 'S'"
	expected := "# header\n[tools]\n# dism = 'dism.exe'\n\n  [letters]\n#   system = 'S'"

	assert.Equal(t, expected, commentOutConfigValues(input))
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	assert.Contains(t, content, "[tools]")
	assert.Contains(t, content, "[timeouts]")
	assert.Contains(t, content, "[letters]")
	assert.Contains(t, content, "[partitions]")
	assert.Contains(t, content, "[deploy]")
	assert.Contains(t, content, "# powershell = 'powershell.exe'")
	assert.Contains(t, content, "# diskpart = '10m0s'")

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestGenerateConfigContent_RoundTrip(t *testing.T) {
	content, err := GenerateConfigContent()
	require.NoError(t, err)

	// Uncommenting the generated file must yield a loadable config equal to the defaults
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}

	dir := isolate(t)
	path := writeConfig(t, dir, strings.Join(lines, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}
