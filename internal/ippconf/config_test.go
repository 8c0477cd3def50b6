/* ippd - a library for building IPP printer servers
 *
 * Config tests
 */

package ippconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ippd.conf")

	contents := "[server]\nlisten = 127.0.0.1:9631\nlog-level = debug\n\n[printer]\nname = office-1\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9631", conf.Listen)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, "office-1", conf.PrinterName)
	assert.Equal(t, Default().EnvelopeCap, conf.EnvelopeCap)
}
