package reporting

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradebook-analyzer/gradebook/internal/dataset"
)

func TestConvertToJUnit_Structure(t *testing.T) {
	r := newTestReport(t, Options{Source: "class.csv", Precision: 2})
	r.GeneratedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	suites := ConvertToJUnit(r)

	assert.Equal(t, 5, suites.Tests)
	assert.Equal(t, len(r.Failed), suites.Failures)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "class.csv", suite.Name)
	assert.Equal(t, "2025-06-15T12:00:00Z", suite.Timestamp)
	require.Len(t, suite.TestCases, 5)

	props := make(map[string]string)
	for _, p := range suite.Properties {
		props[p.Name] = p.Value
	}
	assert.Equal(t, "40", props["pass_threshold"])
	assert.Equal(t, "54.50", props["average"])
}

func TestConvertToJUnit_FailedStudents(t *testing.T) {
	suites := ConvertToJUnit(newTestReport(t, Options{}))
	cases := suites.TestSuites[0].TestCases

	assert.Equal(t, "Alice", cases[0].Name)
	assert.Nil(t, cases[0].Failure)

	bob := cases[1]
	require.NotNil(t, bob.Failure)
	assert.Equal(t, "BelowThreshold", bob.Failure.Type)
	assert.Equal(t, "Bob: score=30 below pass threshold 40", bob.Failure.Message)
	assert.Equal(t, "grade F", bob.Failure.Body)

	failures := 0
	for _, tc := range cases {
		if tc.Failure != nil {
			failures++
		}
	}
	assert.Equal(t, suites.Failures, failures)
}

func TestConvertToJUnit_SkippedRows(t *testing.T) {
	load := &dataset.LoadResult{Skipped: []dataset.SkippedRow{
		{Line: 3, Cells: []string{"Bob", "not_a_number"}, Reason: dataset.SkipInvalidScore},
	}}
	r := newTestReport(t, Options{Load: load})

	suite := ConvertToJUnit(r).TestSuites[0]
	assert.Equal(t, 6, suite.Tests)
	assert.Equal(t, 1, suite.Skipped)

	last := suite.TestCases[len(suite.TestCases)-1]
	assert.Equal(t, "line 3", last.Name)
	require.NotNil(t, last.Skipped)
	assert.Equal(t, "invalid-score", last.Skipped.Message)
}

func TestWriteJUnit_ValidXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, newTestReport(t, Options{})))

	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, 5, parsed.Tests)
	assert.Equal(t, 2, parsed.Failures)
	require.Len(t, parsed.TestSuites, 1)
	assert.Len(t, parsed.TestSuites[0].TestCases, 5)
}
