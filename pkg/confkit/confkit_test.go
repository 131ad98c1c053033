package confkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Setenv("CONF_DIR", "/opt/conf")
	cases := []struct {
		name string
		base string
		file string
		want string
	}{
		{"relative joins base", "/srv/etc", "exchange.yaml", "/srv/etc/exchange.yaml"},
		{"absolute wins", "/srv/etc", "/etc/exchange.yaml", "/etc/exchange.yaml"},
		{"env expansion", "/srv/etc", "${CONF_DIR}/exchange.yaml", "/opt/conf/exchange.yaml"},
		{"nested relative", "/srv/etc", "conf/exchange.yaml", "/srv/etc/conf/exchange.yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolvePath(tc.base, tc.file))
		})
	}
}

func TestBaseDir(t *testing.T) {
	require.Equal(t, "/srv/etc", BaseDir("/srv/etc/candlesync.yaml"))
}

type sampleConf struct {
	Name  string `json:",default=candlesync"`
	Count int    `json:",default=3"`
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: custom\n"), 0o644))

	cfg, err := LoadFile[sampleConf](path, false)
	require.NoError(t, err)
	require.Equal(t, "custom", cfg.Name)
	require.Equal(t, 3, cfg.Count)

	_, err = LoadFile[sampleConf](filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.Error(t, err)
}

func TestSectionHydrate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "section.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: hydrated\n"), 0o644))

	loader := func(p string) (*sampleConf, error) {
		return LoadFile[sampleConf](p, false)
	}

	s := Section[sampleConf]{File: "section.yaml"}
	require.NoError(t, s.Hydrate(dir, loader))
	require.NotNil(t, s.Value)
	require.Equal(t, "hydrated", s.Value.Name)
	require.Equal(t, path, s.File, "File is rewritten to the resolved path")

	// Inline sections have no file and hydrate to a no-op.
	inline := Section[sampleConf]{}
	require.NoError(t, inline.Hydrate(dir, loader))
	require.Nil(t, inline.Value)
}

func TestProjectRootFindsGoMod(t *testing.T) {
	root, err := ProjectRoot()
	require.NoError(t, err)
	require.True(t, fileExists(filepath.Join(root, "go.mod")))
}
