package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Item 1\n- Item 2\n* Item 3"
	result := CleanText(input)

	assert.Contains(t, result, "- Item 1")
	assert.Contains(t, result, "- Item 2")
	assert.Contains(t, result, "* Item 3")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with    multiple    spaces"
	result := CleanText(input)

	assert.Contains(t, result, "Line with multiple spaces")
	assert.NotContains(t, result, "    ") // Should not have 4 spaces
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	// Should have max 2 consecutive newlines
	assert.NotContains(t, result, "\n\n\n\n")
	// But should preserve up to 2
	assert.Contains(t, result, "\n\n")
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	// All should be normalized to LF
	assert.NotContains(t, result, "\r\n")
	assert.NotContains(t, result, "\r")
	assert.Contains(t, result, "\n")
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	result1 := CleanText(input)
	result2 := CleanText(input)

	// Same input should produce identical output
	assert.Equal(t, result1, result2)
}

func TestCleanText_EmptyInput(t *testing.T) {
	result := CleanText("")
	assert.Empty(t, result)
}

func TestCleanText_OnlyWhitespace(t *testing.T) {
	result := CleanText("   \n  \n  ")
	assert.Empty(t, result)
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "    Indented line\n  Less indented"
	result := CleanText(input)

	// Should preserve relative indentation
	assert.Contains(t, result, "Indented")
	assert.Contains(t, result, "Less indented")
}

func TestLoadText_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("# Jane Doe\r\n\r\n\r\n\r\nGo    engineer"), 0644))

	doc, err := LoadText(path)
	require.NoError(t, err)

	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "# Jane Doe\n\nGo engineer", doc.Text)
	assert.Len(t, doc.Hash, 64)
}

func TestLoadText_HTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.html")
	html := `<html><body><nav>Home | Jobs</nav>
<div class="job-description"><h2>Backend Engineer</h2><ul><li>Go</li><li>PostgreSQL</li></ul></div>
<footer>Copyright</footer></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	doc, err := LoadText(path)
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, doc.Format)
	assert.Equal(t, "Backend Engineer\n- Go\n- PostgreSQL", doc.Text)
}

func TestLoadText_FileNotFound(t *testing.T) {
	doc, err := LoadText("/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLoadText_HashTracksContent(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("Content 1"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("Content 2"), 0644))

	a1, err := LoadText(first)
	require.NoError(t, err)
	a2, err := LoadText(first)
	require.NoError(t, err)
	b, err := LoadText(second)
	require.NoError(t, err)

	assert.Equal(t, a1.Hash, a2.Hash)
	assert.NotEqual(t, a1.Hash, b.Hash)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatHTML, DetectFormat("job.HTM", nil))
	assert.Equal(t, FormatText, DetectFormat("job.md", []byte("<html>")))
	assert.Equal(t, FormatHTML, DetectFormat("job", []byte("  <!DOCTYPE html><html></html>")))
	assert.Equal(t, FormatText, DetectFormat("job", []byte("Senior engineer")))
}
