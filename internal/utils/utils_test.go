package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ignore.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comments are skipped\n\nHome Movies\n  trailer  \n"), 0600))

	list, err := LoadIgnoreList(path)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Len())

	testCases := []struct {
		title   string
		ignored bool
		term    string
	}{
		{title: "Home Movies 2019", ignored: true, term: "Home Movies"},
		{title: "ALIEN (Trailer)", ignored: true, term: "trailer"},
		{title: "Alien", ignored: false},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			ignored, term := list.IsIgnored(tc.title)
			assert.Equal(t, tc.ignored, ignored)
			assert.Equal(t, tc.term, term)
		})
	}
}

func TestIgnoreListMissingFile(t *testing.T) {
	list, err := LoadIgnoreList(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())

	list, err = LoadIgnoreList("")
	require.NoError(t, err)
	ignored, _ := list.IsIgnored("anything")
	assert.False(t, ignored)

	var nilList *IgnoreList
	ignored, _ = nilList.IsIgnored("anything")
	assert.False(t, ignored)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.Info("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "msg=shown")
	assert.Regexp(t, `time="\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}"`, out)

	verbose := NewLogger(&buf, true)
	assert.Equal(t, logrus.DebugLevel, verbose.GetLevel())
}

func TestNewFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", LogFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("earlier run\n"), 0644))

	logger, closer, err := NewFileLogger(path, false)
	require.NoError(t, err)
	logger.Warn("second run")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "earlier run", lines[0])
	assert.Contains(t, lines[1], "level=warning")
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "Am\u00e9lie", NormalizeTitle("  Ame\u0301lie"))
	assert.Equal(t, "Alien", NormalizeTitle("Alien"))
}

func TestDefaultLogFile(t *testing.T) {
	assert.Equal(t, LogFileName, filepath.Base(DefaultLogFile()))
}
