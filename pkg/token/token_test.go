package token

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	assert.Equal(t, "abc", NewStaticToken(" abc\n").Token())
	assert.Equal(t, "", NewStaticToken("").Token())
}

func TestFileTokenReloads(t *testing.T) {
	name := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(name, []byte("first\n"), 0o600))

	tp, err := NewFileToken(name)
	require.NoError(t, err)
	defer tp.Close()

	assert.Equal(t, "first", tp.Token())

	require.NoError(t, os.WriteFile(name, []byte("second\n"), 0o600))
	assert.Eventually(t, func() bool {
		return tp.Token() == "second"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileTokenMissing(t *testing.T) {
	_, err := NewFileToken(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
