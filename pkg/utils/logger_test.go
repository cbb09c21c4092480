package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(AppConfig{Name: "court-test", LogPath: dir})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "court-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"court-test"`)
}

func TestInitLogger_StdoutOnly(t *testing.T) {
	logger, err := InitLogger(AppConfig{Debug: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
