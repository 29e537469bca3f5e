package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulumi-compose/pulumi-compose/internal/dapr"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
)

// evalSymlinks resolves symlinks for path comparison (macOS /var -> /private/var).
func evalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
	require.NoError(t, os.Chdir(dir))
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindFile_FromSubdirectory(t *testing.T) {
	tmpDir := evalSymlinks(t, t.TempDir())
	path := writeConfig(t, tmpDir, "onError: skip\n")

	subDir := filepath.Join(tmpDir, "infra", "deep")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	found, ok := FindFile(subDir)
	require.True(t, ok)
	assert.Equal(t, path, found)
}

func TestFindFile_NotFound(t *testing.T) {
	tmpDir := evalSymlinks(t, t.TempDir())

	_, ok := FindFile(tmpDir)
	assert.False(t, ok)
}

func TestFindFile_IgnoresDirectory(t *testing.T) {
	tmpDir := evalSymlinks(t, t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, FileName), 0755))

	_, ok := FindFile(tmpDir)
	assert.False(t, ok)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	chdir(t, evalSymlinks(t, t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, pulumi.ModeFailFast, cfg.Mode())
}

func TestLoad_Discovered(t *testing.T) {
	t.Setenv(EnvVar, "")
	tmpDir := evalSymlinks(t, t.TempDir())
	path := writeConfig(t, tmpDir, `apiVersion: pulumi-compose.io/v1
kind: Config
onError: skip
output: local/compose.yml
dapr:
  sidecarImage: daprio/daprd:1.14.4
`)

	subDir := filepath.Join(tmpDir, "sub")
	require.NoError(t, os.MkdirAll(subDir, 0755))
	chdir(t, subDir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, pulumi.ModeSkip, cfg.Mode())
	assert.Equal(t, "local/compose.yml", cfg.Output)
	assert.Equal(t, "daprio/daprd:1.14.4", cfg.Dapr.SidecarImage)
	assert.Equal(t, dapr.DefaultPlacementImage, cfg.Dapr.PlacementImage)
	assert.Equal(t, dapr.DefaultPlacementPort, cfg.Dapr.PlacementPort)
}

func TestLoad_ExplicitAndEnv(t *testing.T) {
	tmpDir := evalSymlinks(t, t.TempDir())
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("output: explicit.yml\n"), 0644))
	fromEnv := filepath.Join(tmpDir, "env.yaml")
	require.NoError(t, os.WriteFile(fromEnv, []byte("output: env.yml\n"), 0644))

	t.Setenv(EnvVar, fromEnv)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.yml", cfg.Output)

	cfg, err = Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "explicit.yml", cfg.Output)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		contains string
	}{
		{
			name:    "unsupported apiVersion",
			content: "apiVersion: pulumi-compose.io/v9\n",
			wantErr: ErrUnsupportedAPIVersion,
		},
		{
			name:    "wrong kind",
			content: "kind: Stack\n",
			wantErr: ErrInvalidKind,
		},
		{
			name:    "bad onError",
			content: "onError: ignore\n",
			wantErr: ErrInvalidOnError,
		},
		{
			name:     "bad placement port",
			content:  "dapr:\n  placementPort: 700000\n",
			contains: "out of range",
		},
		{
			name:     "invalid yaml",
			content:  "dapr: [\n",
			contains: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadFile(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadFile_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, dapr.DefaultSettings(), cfg.Dapr)
	assert.Equal(t, pulumi.ModeFailFast, cfg.Mode())
}

func TestConfig_Options(t *testing.T) {
	cfg := Default()
	cfg.OnError = "skip"
	cfg.Dapr = dapr.Settings{Network: "mesh"}

	opts := cfg.Options()
	assert.Equal(t, pulumi.ModeSkip, opts.Mode)
	assert.Equal(t, "mesh", opts.Dapr.Network)
	assert.Equal(t, dapr.DefaultSidecarImage, opts.Dapr.SidecarImage)
}

func TestValidateAPIVersion(t *testing.T) {
	require.NoError(t, ValidateAPIVersion(""))
	require.NoError(t, ValidateAPIVersion(APIVersionV1))

	err := ValidateAPIVersion("invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAPIVersion)
}
