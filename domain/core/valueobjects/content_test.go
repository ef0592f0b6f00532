package valueobjects

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemoryContent_Valid(t *testing.T) {
	content, err := NewMemoryContent("  Trip to Kyoto  ", " notes ", FormatMarkdown)

	require.NoError(t, err)
	assert.Equal(t, "Trip to Kyoto", content.Title())
	assert.Equal(t, "notes", content.Body())
	assert.Equal(t, FormatMarkdown, content.Format())
}

func TestNewMemoryContent_EmptyTitle(t *testing.T) {
	_, err := NewMemoryContent("   ", "body", FormatPlainText)

	assert.Error(t, err)
}

func TestNewMemoryContent_TitleTooLong(t *testing.T) {
	_, err := NewMemoryContent(strings.Repeat("x", 201), "", FormatPlainText)

	assert.Error(t, err)
}

func TestNewMemoryContent_InvalidFormat(t *testing.T) {
	_, err := NewMemoryContent("title", "", ContentFormat("yaml"))

	assert.Error(t, err)
}

func TestMemoryContent_Summary(t *testing.T) {
	content, err := NewMemoryContent("Title", "a long body", FormatPlainText)
	require.NoError(t, err)

	assert.Equal(t, "Title: a long body", content.Summary(100))
	assert.Equal(t, "Title: ...", content.Summary(10))
	assert.Equal(t, "", content.Summary(0))
}

func TestNewPosition3D_RejectsNonFinite(t *testing.T) {
	_, err := NewPosition3D(0, 1, 2)
	assert.NoError(t, err)

	_, err = NewPosition3D(math.NaN(), 0, 0)
	assert.Error(t, err)

	_, err = NewPosition3D(0, math.Inf(1), 0)
	assert.Error(t, err)
}

func TestMemoryID_RoundTrip(t *testing.T) {
	id := NewMemoryID()

	parsed, err := NewMemoryIDFromString(id.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(id))

	_, err = NewMemoryIDFromString("not-a-uuid")
	assert.Error(t, err)

	_, err = NewMemoryIDFromString("")
	assert.Error(t, err)
}
