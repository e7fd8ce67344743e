package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText(strings.NewReader("  Jordan Smith\nData engineer.  \n"), "resume.txt")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Smith\nData engineer.", text)
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	_, err := ExtractText(strings.NewReader("binary"), "resume.odt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractText_ExtensionCaseInsensitive(t *testing.T) {
	text, err := ExtractText(strings.NewReader("hello"), "RESUME.TXT")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	_, err := ExtractText(strings.NewReader("definitely not a pdf"), "resume.pdf")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}
