package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PADNAV_LAYOUTS", "/srv/layouts")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/menu.yml", filepath.Join(home, "menu.yml")},
		{"$PADNAV_LAYOUTS/menu.yml", "/srv/layouts/menu.yml"},
		{"/abs/menu.yml", "/abs/menu.yml"},
	}
	for _, tt := range tests {
		got, err := Expand(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	cwd, err := os.Getwd()
	require.NoError(t, err)
	got, err := Expand("menu.yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "menu.yml"), got)
}
