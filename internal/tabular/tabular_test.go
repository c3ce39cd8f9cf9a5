package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n  \n"))
}

func TestParse_SingleRow(t *testing.T) {
	rows := Parse("a,b,c")

	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
}

func TestParse_MultipleRows(t *testing.T) {
	rows := Parse("date,total\n2025-01-01,5\n2025-01-02,7")

	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "total"}, rows[0])
	assert.Equal(t, []string{"2025-01-01", "5"}, rows[1])
	assert.Equal(t, []string{"2025-01-02", "7"}, rows[2])
}

func TestParse_TrimsFields(t *testing.T) {
	rows := Parse("  a , b ,c  ")

	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
}

func TestParse_QuotedDelimiter(t *testing.T) {
	rows := Parse(`"A,B",second`)

	assert.Equal(t, []string{"A,B", "second"}, rows[0])
}

func TestParse_QuoteTogglesOnly(t *testing.T) {
	// A stray quote toggles the in-quotes state instead of escaping, so the
	// following comma is swallowed into the field and the rest of the line
	// merges silently.
	rows := Parse(`val"ue,second`)

	assert.Equal(t, []string{"value,second"}, rows[0])
}

func TestParse_RaggedRows(t *testing.T) {
	rows := Parse("a,b,c\n1,2\n1,2,3,4")

	assert.Len(t, rows, 3)
	assert.Len(t, rows[1], 2)
	assert.Len(t, rows[2], 4)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	rows := Parse("a,b\n\n1,2\n   \n3,4\n")

	assert.Len(t, rows, 3)
}

func TestParse_CarriageReturns(t *testing.T) {
	rows := Parse("a,b\r\n1,2\r\n")

	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"1", "2"}, rows[1])
}
