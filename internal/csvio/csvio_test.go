package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Run("strips_utf8_bom", func(t *testing.T) {
		header, rows, err := Read(strings.NewReader("\ufeffIP ADDRESS,USER\n10.0.0.1,alice\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"IP ADDRESS", "USER"}, header)
		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, "alice", rows[0].Get(1))
	})

	t.Run("without_bom", func(t *testing.T) {
		header, _, err := Read(strings.NewReader(" A , B \n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, header)
	})

	t.Run("line_numbers_follow_the_file", func(t *testing.T) {
		in := "A,B\n1,\"multi\nline\"\n2,x\n"
		_, rows, err := Read(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, 4, rows[1].Line)
	})

	t.Run("ragged_rows", func(t *testing.T) {
		_, rows, err := Read(strings.NewReader("A,B,C\n1\n1,2,3,4\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "", rows[0].Get(2))
		assert.Equal(t, "", rows[0].Get(-1))
		assert.Len(t, rows[1].Fields, 4)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := Read(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("malformed", func(t *testing.T) {
		_, _, err := Read(strings.NewReader("A\nbare\"quote\n"))
		assert.Error(t, err)
	})
}

func TestRowBlank(t *testing.T) {
	assert.True(t, Row{Fields: []string{"", "  "}}.Blank())
	assert.False(t, Row{Fields: []string{"", "x"}}.Blank())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write([]string{"IP ADDRESS", "DOMAIN NAME"}))
	require.NoError(t, w.Write([]string{"10.0.0.1", "a,b"}))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "expected a leading BOM")
	assert.Equal(t, "\ufeffIP ADDRESS,DOMAIN NAME\n10.0.0.1,\"a,b\"\n", out)

	header, rows, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"IP ADDRESS", "DOMAIN NAME"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "a,b", rows[0].Get(1))
}
