package batch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefind/sitefind/internal/batch"
)

func TestParseRows(t *testing.T) {
	input := strings.Join([]string{
		"# codes exported 2024-06-01",
		"WE01",
		"",
		"ABC123, www.example.com",
		"  XYZ999  ",
		",",
		"# trailing comment",
	}, "\n")

	rows, err := batch.ParseRows(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []batch.Row{
		{Code: "WE01"},
		{Code: "ABC123", Website: "www.example.com"},
		{Code: "XYZ999"},
	}, rows)
}

func TestParseRows_Empty(t *testing.T) {
	rows, err := batch.ParseRows(strings.NewReader("\n# nothing here\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
