package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/adapters/inbound/cli"
)

func TestInspectCmd_RendersScore(t *testing.T) {
	out, err := execute(t, "inspect", filepath.Join(fixtureDir, "focus-trap.html"))
	require.NoError(t, err)
	assert.Contains(t, out, "focus-trap.html")
	assert.Contains(t, out, "44% (4/9)")
	assert.Contains(t, out, "image-alt")
}

func TestInspectCmd_JSON(t *testing.T) {
	out, err := execute(t, "inspect", filepath.Join(fixtureDir, "accessible.html"), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"percentage": 100`)
	assert.Contains(t, out, `"has_container": true`)
}

func TestInspectCmd_MinScore(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(fixtureDir, "focus-trap.html"), "--min", "60")
	require.ErrorIs(t, err, cli.ErrBelowBar)
}

func TestInspectCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading snapshot")
}
