package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Text(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	midterm := writeScores(t, dir, "midterm.csv", "Alice,60\nBob,50\nCarol,80\n")
	final := writeScores(t, dir, "final.csv", "Alice,80\nBob,75\nDan,90\nbroken\n")

	out, errOut, err := runCLI(t, "", "compare", midterm, final, "--confidence", "0.9", "--seed", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "COMPARISON REPORT")
	assert.Contains(t, out, "Average delta: +18.33")
	assert.Contains(t, out, "(significant)")
	assert.Contains(t, out, "Carol")
	assert.Contains(t, errOut, "warning: "+final+": line 4: skipping malformed row")
}

func TestCompare_JSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeScores(t, dir, "a.csv", "Alice,60\n")
	b := writeScores(t, dir, "b.csv", "Alice,70\n")
	c := writeScores(t, dir, "c.csv", "Alice,100\n")

	out, _, err := runCLI(t, "", "compare", a, b, c, "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		Files        []string  `json:"files"`
		Averages     []float64 `json:"averages"`
		AverageDelta float64   `json:"average_delta"`
		Students     []struct {
			Name  string   `json:"name"`
			Delta *float64 `json:"delta"`
			Gain  *float64 `json:"normalized_gain"`
		} `json:"students"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{a, b, c}, decoded.Files)
	assert.Equal(t, []float64{60, 70, 100}, decoded.Averages)
	assert.Equal(t, 40.0, decoded.AverageDelta)
	require.Len(t, decoded.Students, 1)
	assert.Equal(t, 40.0, *decoded.Students[0].Delta)
	assert.Equal(t, 1.0, *decoded.Students[0].Gain)
}

func TestCompare_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeScores(t, dir, "a.csv", "Alice,60\n")
	empty := writeScores(t, dir, "empty.csv", "")

	_, _, err := runCLI(t, "", "compare", a)
	assert.Error(t, err)

	_, _, err = runCLI(t, "", "compare", a, empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
	assert.Contains(t, err.Error(), "gradebook is empty")

	_, _, err = runCLI(t, "", "compare", a, a, "--format", "xml")
	assert.ErrorContains(t, err, `unsupported format "xml"`)
}
