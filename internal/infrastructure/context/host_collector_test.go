package contextcollector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostCollectorFillsBasics(t *testing.T) {
	t.Setenv("USER", "tester")
	c := NewHostCollector(zerolog.Nop())

	info := c.Collect(context.Background())
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)
	assert.Equal(t, "tester", info.User)

	again := c.Collect(context.Background())
	assert.Equal(t, info, again)
}

func TestCurrentUserFallbacks(t *testing.T) {
	t.Setenv("USER", "")
	t.Setenv("LOGNAME", "logname-user")
	assert.Equal(t, "logname-user", currentUser())

	t.Setenv("LOGNAME", "")
	assert.Equal(t, "unknown", currentUser())
}

func TestPrettyName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	content := "NAME=\"Debian GNU/Linux\"\nPRETTY_NAME=\"Debian GNU/Linux 13  (trixie)\"\nID=debian\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	assert.Equal(t, "Debian GNU/Linux 13 (trixie)", prettyName(path))
	assert.Equal(t, "", prettyName(filepath.Join(t.TempDir(), "absent")))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Linux", capitalize("linux"))
	assert.Equal(t, "", capitalize(""))
}
