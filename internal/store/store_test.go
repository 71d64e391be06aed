package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixedStore(t *testing.T, at time.Time) *DocumentStore {
	t.Helper()
	s := New(t.TempDir())
	s.now = func() time.Time { return at }
	return s
}

func TestSaveNamesFileByTimestampAndKeyword(t *testing.T) {
	s := newFixedStore(t, time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC))

	path, err := s.Save("# 본문", "손흥민")
	require.NoError(t, err)

	assert.Equal(t, "20260831_080000_손흥민.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 본문", string(data))
}

func TestSaveSanitizesKeyword(t *testing.T) {
	s := newFixedStore(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	path, err := s.Save("본문", `금리/인하: "전망"`)
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.NotContains(t, base, "/")
	assert.NotContains(t, base, ":")
	assert.NotContains(t, base, `"`)
	assert.True(t, strings.HasSuffix(base, ".md"))
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "posts")
	s := New(dir)

	_, err := s.Save("본문", "키워드")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadRecentNewestFirst(t *testing.T) {
	s := New(t.TempDir())

	for i, stamp := range []string{"20260101_080000", "20260301_080000", "20260201_080000"} {
		name := stamp + "_doc.md"
		content := "# 문서 " + string(rune('A'+i))
		require.NoError(t, os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644))
	}

	docs, err := s.LoadRecent(2, nil)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Contains(t, docs[0].Path, "20260301")
	assert.Contains(t, docs[1].Path, "20260201")
}

func TestLoadRecentUsesTitleExtractor(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "20260101_080000_doc.md"), []byte("내용"), 0o644))

	docs, err := s.LoadRecent(0, func(string) string { return "추출된 제목" })
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "추출된 제목", docs[0].Title)
	assert.True(t, strings.HasPrefix(docs[0].Link, "file:///"))
}

func TestLoadRecentMissingDirIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))

	docs, err := s.LoadRecent(5, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadRecentIgnoresNonMarkdown(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "20260101_080000_doc.md"), []byte("y"), 0o644))

	docs, err := s.LoadRecent(0, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
