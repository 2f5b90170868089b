package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
	"github.com/gradebook-analyzer/gradebook/internal/statistics"
)

func compareBooks() []*gradebook.Gradebook {
	midterm := gradebook.FromRecords([]gradebook.ScoreRecord{
		{Name: "Alice", Score: 60},
		{Name: "Bob", Score: 50},
		{Name: "Carol", Score: 80},
	})
	final := gradebook.FromRecords([]gradebook.ScoreRecord{
		{Name: "Bob", Score: 75},
		{Name: "Alice", Score: 80},
		{Name: "Dan", Score: 90},
	})
	return []*gradebook.Gradebook{midterm, final}
}

func TestCompare(t *testing.T) {
	c, err := Compare([]string{"midterm.csv", "final.csv"}, compareBooks(), CompareOptions{})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3}, c.Counts)
	assert.InDelta(t, 190.0/3, c.Averages[0], 1e-9)
	assert.InDelta(t, 245.0/3, c.Averages[1], 1e-9)
	assert.InDelta(t, 55.0/3, c.AverageDelta, 1e-9)

	names := make([]string, len(c.Students))
	for i, sd := range c.Students {
		names[i] = sd.Name
	}
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dan"}, names)

	alice := c.Students[0]
	require.NotNil(t, alice.Delta)
	assert.Equal(t, 20.0, *alice.Delta)
	assert.InDelta(t, 0.5, *alice.Gain, 1e-9)

	carol := c.Students[2]
	assert.Nil(t, carol.Scores[1])
	assert.Nil(t, carol.Delta)
	assert.Nil(t, c.DeltaCI)
}

func TestCompare_ConfidenceInterval(t *testing.T) {
	c, err := Compare([]string{"a", "b"}, compareBooks(), CompareOptions{ConfidenceLevel: 0.9, Seed: 1})
	require.NoError(t, err)
	require.NotNil(t, c.DeltaCI)
	// Both paired deltas (20 and 25) are positive, so every resample mean is too.
	assert.True(t, c.Significant)
	assert.GreaterOrEqual(t, c.DeltaCI.Lower, 20.0)
	assert.LessOrEqual(t, c.DeltaCI.Upper, 25.0)
}

func TestCompare_Errors(t *testing.T) {
	books := compareBooks()

	_, err := Compare([]string{"a"}, books[:1], CompareOptions{})
	assert.ErrorContains(t, err, "at least two")

	_, err = Compare([]string{"a"}, books, CompareOptions{})
	assert.Error(t, err)

	_, err = Compare([]string{"a", "empty.csv"}, []*gradebook.Gradebook{books[0], gradebook.FromRecords(nil)}, CompareOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, statistics.ErrEmptyInput))
	assert.Contains(t, err.Error(), "empty.csv")
}

func TestWriteComparison(t *testing.T) {
	c, err := Compare([]string{"midterm.csv", "final.csv"}, compareBooks(), CompareOptions{Precision: 1})
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, WriteComparisonText(&text, c))
	out := text.String()
	assert.Contains(t, out, "[1] midterm.csv  (3 students, average 63.3)")
	assert.Contains(t, out, "Average delta: +18.3")
	assert.Contains(t, out, "Alice    60       80       +20.0    0.5")
	assert.Contains(t, out, "Carol    80       n/a      n/a      n/a")

	var js bytes.Buffer
	require.NoError(t, WriteComparisonJSON(&js, c))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	students := decoded["students"].([]any)
	carol := students[2].(map[string]any)
	assert.Equal(t, []any{80.0, nil}, carol["scores"])
	assert.NotContains(t, carol, "delta")
}
