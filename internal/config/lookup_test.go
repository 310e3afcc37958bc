package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	tests := []struct {
		name  string
		setup func(t *testing.T)
		start string
		want  string
	}{
		{
			name:  "nothing up to the project root",
			setup: func(t *testing.T) {},
			start: nested,
			want:  "",
		},
		{
			name: "found in a parent",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(filepath.Join(root, ".aquarankrc.yaml"), []byte("top: 2\n"), 0644))
			},
			start: nested,
			want:  filepath.Join(root, ".aquarankrc.yaml"),
		},
		{
			name: "nearest wins",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(filepath.Join(root, "a", ".aquarankrc.json"), []byte("{}"), 0644))
			},
			start: nested,
			want:  filepath.Join(root, "a", ".aquarankrc.json"),
		},
		{
			name: "json before yaml in the same directory",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(filepath.Join(root, ".aquarankrc.json"), []byte("{}"), 0644))
			},
			start: root,
			want:  filepath.Join(root, ".aquarankrc.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			assert.Equal(t, tt.want, findConfigFile(tt.start))
		})
	}
}

func TestFindConfigFileStopsAtProjectRoot(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, ".aquarankrc.json"), []byte("{}"), 0644))

	project := filepath.Join(outer, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "go.mod"), []byte("module x\n"), 0644))

	assert.Empty(t, findConfigFile(filepath.Join(project, "sub")))
	assert.Equal(t, filepath.Join(outer, ".aquarankrc.json"), findConfigFile(outer))
}

func TestFindConfigFileIgnoresDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".aquarankrc.json"), 0755))

	assert.Empty(t, findConfigFile(root))
}

func TestLoadConfigFromParentDirectory(t *testing.T) {
	resetViper()
	root := chdirTemp(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".aquarankrc.yaml"), []byte("profile: standard\n"), 0644))
	sub := filepath.Join(root, "reports")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.Chdir(sub))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "standard", config.Profile)
}
