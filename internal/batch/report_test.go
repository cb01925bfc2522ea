package batch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefind/sitefind/internal/batch"
)

func sampleReport() *batch.Report {
	r := &batch.Report{}
	r.Add(batch.Outcome{Code: "WE01", Status: batch.StatusUpdated, URL: "www.websterelectric.com"})
	r.Add(batch.Outcome{Code: "ABC123", Status: batch.StatusSkipped, Err: "website already exists"})
	r.Add(batch.Outcome{Code: "XYZ999", Status: batch.StatusFailed, Err: "HTTP 500: internal error"})
	return r
}

func TestReport_Counters(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Updated)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, r.Total, r.Updated+r.Skipped+r.Failed)
}

func TestReport_WriteCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport().WriteCSV(&sb, true))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "code,status,url,error", lines[0])
	assert.Equal(t, "WE01,updated,www.websterelectric.com,", lines[1])
	assert.Equal(t, "ABC123,skipped,,website already exists", lines[2])
	assert.Equal(t, "XYZ999,failed,,HTTP 500: internal error", lines[3])
}

func TestReport_WriteCSV_ExcludesSkipped(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport().WriteCSV(&sb, false))

	out := sb.String()
	assert.NotContains(t, out, "ABC123")
	assert.Contains(t, out, "WE01")
	assert.Contains(t, out, "XYZ999")
}

func TestReport_WriteSummary(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleReport().WriteSummary(&sb))
	assert.Equal(t, "processed 3 records: 1 updated, 1 skipped, 1 failed\n", sb.String())
}
