package render_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ivindex/pkg/render"
	"github.com/Sumatoshi-tech/ivindex/pkg/script"
)

const testMaxEntries = 2

func ptr[T any](v T) *T {
	return &v
}

func sampleReport() *script.Report {
	return &script.Report{
		Name: "quotes",
		Results: []script.Result{
			{
				Step:      0,
				Operation: script.Operation{Op: script.OpOverlap, Low: 15, High: 30},
				Entries: []script.Entry{
					{Low: 5, High: 15, Value: "B"},
					{Low: 7, High: 16, Value: "D"},
					{Low: 10, High: 20, Value: "C"},
				},
				Duration: 3 * time.Microsecond,
			},
			{
				Step:      1,
				Operation: script.Operation{Op: script.OpPercentile, P: 0.6},
				Scalar:    ptr(7.0),
			},
			{
				Step:      2,
				Operation: script.Operation{Op: script.OpDelete, Low: 7, High: 12},
				Found:     ptr(false),
			},
			{
				Step:      3,
				Operation: script.Operation{Op: script.OpInsert, Low: 9, High: 3, Value: "X"},
				Err:       errors.New("invalid interval: low > high"),
			},
			{
				Step:      4,
				Operation: script.Operation{Op: script.OpSize},
				Count:     ptr(1234),
			},
			{
				Step:      5,
				Operation: script.Operation{Op: script.OpRank, N: 2},
				Keys:      []float64{5, 7},
			},
		},
		Size:     1234,
		LowCount: 900,
		Elapsed:  time.Millisecond,
	}
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, sampleReport(), render.Options{MaxEntries: testMaxEntries}))

	out := buf.String()
	assert.Contains(t, out, "=== QUOTES ===")
	assert.Contains(t, out, "overlap [15, 30]")
	assert.Contains(t, out, "[5, 15] B, [7, 16] D, +1 more")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "error: invalid interval")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "5, 7")
	assert.Contains(t, out, "size 1,234, lows 900")
	assert.Contains(t, out, "p50 ")
	assert.NotContains(t, out, "\x1b[")
}

func TestWrite_TableColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, sampleReport(), render.Options{Format: render.FormatTable, Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestWrite_TableUnnamed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, &script.Report{}, render.Options{}))
	assert.Contains(t, buf.String(), "=== SCRIPT ===")
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, sampleReport(), render.Options{Format: render.FormatJSON, MaxEntries: testMaxEntries}))

	var doc struct {
		Name       string `json:"name"`
		Size       int    `json:"size"`
		Failures   int    `json:"failures"`
		Latency    struct {
			MaxNS int64 `json:"max_ns"`
		} `json:"latency"`
		Operations []struct {
			Op      string `json:"op"`
			Entries []struct {
				Value string `json:"value"`
			} `json:"entries"`
			Scalar *float64 `json:"scalar"`
			Found  *bool    `json:"found"`
			Error  string   `json:"error"`
		} `json:"operations"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "quotes", doc.Name)
	assert.Equal(t, 1234, doc.Size)
	assert.Equal(t, 1, doc.Failures)
	assert.Equal(t, (3 * time.Microsecond).Nanoseconds(), doc.Latency.MaxNS)
	require.Len(t, doc.Operations, 6)

	// Structured output is never truncated.
	assert.Len(t, doc.Operations[0].Entries, 3)
	require.NotNil(t, doc.Operations[1].Scalar)
	assert.InDelta(t, 7.0, *doc.Operations[1].Scalar, 0)
	require.NotNil(t, doc.Operations[2].Found)
	assert.False(t, *doc.Operations[2].Found)
	assert.Contains(t, doc.Operations[3].Error, "low > high")
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.Write(&buf, sampleReport(), render.Options{Format: render.FormatYAML}))

	var doc map[string]any

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "quotes", doc["name"])
	assert.Equal(t, 900, doc["low_count"])

	ops, ok := doc["operations"].([]any)
	require.True(t, ok)
	assert.Len(t, ops, 6)
	assert.True(t, strings.HasPrefix(buf.String(), "name: quotes"))
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := render.Write(&bytes.Buffer{}, sampleReport(), render.Options{Format: "csv"})
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}
