package gradebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DuplicateOverwritesButKeepsAudit(t *testing.T) {
	var warnings []string
	b := NewBuilder(DuplicateWarnAndOverwrite, func(msg string) { warnings = append(warnings, msg) })

	assert.False(t, b.Add(ScoreRecord{Name: "Alice", Score: 70, Line: 1}))
	assert.False(t, b.Add(ScoreRecord{Name: "Bob", Score: 60, Line: 2}))
	assert.True(t, b.Add(ScoreRecord{Name: "Alice", Score: 90, Line: 3}))

	gb, err := b.Build()
	require.NoError(t, err)

	score, ok := gb.Score("Alice")
	require.True(t, ok)
	assert.Equal(t, 90.0, score)
	assert.Equal(t, 2, gb.Len())
	assert.Equal(t, []string{"Alice", "Bob"}, gb.Names())
	assert.Equal(t, []float64{90, 60}, gb.Scores())

	recs := gb.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, ScoreRecord{Name: "Alice", Score: 70, Line: 1}, recs[0])
	assert.Equal(t, ScoreRecord{Name: "Alice", Score: 90, Line: 3}, recs[2])

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `duplicate name "Alice"`)
	assert.Contains(t, warnings[0], "70 with 90")
}

func TestBuilder_OverwritePolicyIsSilent(t *testing.T) {
	called := false
	b := NewBuilder(DuplicateOverwrite, func(string) { called = true })
	b.AddAll([]ScoreRecord{{Name: "Eve", Score: 1}, {Name: "Eve", Score: 2}})

	gb, err := b.Build()
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, 1, gb.Len())
	assert.Len(t, gb.Records(), 2)
}

func TestBuilder_EmptyBuild(t *testing.T) {
	gb, err := NewBuilder("", nil).Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
	require.NotNil(t, gb)
	assert.Equal(t, 0, gb.Len())
	assert.Empty(t, gb.Names())
}

func TestGradebook_NilSafe(t *testing.T) {
	var gb *Gradebook
	assert.Equal(t, 0, gb.Len())
	assert.Nil(t, gb.Names())
	assert.Nil(t, gb.Records())
	_, ok := gb.Score("x")
	assert.False(t, ok)
}

func TestGradebook_SortedNamesAndEntries(t *testing.T) {
	gb := FromRecords([]ScoreRecord{{Name: "Zed", Score: 1}, {Name: "Amy", Score: 2.5}})
	assert.Equal(t, []string{"Amy", "Zed"}, gb.SortedNames())
	assert.Equal(t, []ScoreRecord{{Name: "Zed", Score: 1}, {Name: "Amy", Score: 2.5}}, gb.Entries())
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("overwrite")
	require.NoError(t, err)
	assert.Equal(t, DuplicateOverwrite, p)

	p, err = ParseDuplicatePolicy("warn-and-overwrite")
	require.NoError(t, err)
	assert.Equal(t, DuplicateWarnAndOverwrite, p)

	_, err = ParseDuplicatePolicy("reject")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown duplicate policy "reject"`)
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{85, "85"},
		{92.5, "92.5"},
		{0, "0"},
		{89.99, "89.99"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatScore(tt.in))
		})
	}
}

func TestFromMap_LexicalOrder(t *testing.T) {
	gb := FromMap(map[string]float64{"Zoe": 70, "Adam": 91, "Mia": 55.5})
	assert.Equal(t, []string{"Adam", "Mia", "Zoe"}, gb.Names())
	assert.Equal(t, []float64{91, 55.5, 70}, gb.Scores())
}
