package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one gradebook.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one student, or to one skipped input row.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure marks a student below the pass threshold.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks an input row that was not loaded.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

const junitClassname = "gradebook"

// ConvertToJUnit converts a Report to JUnit XML: every student is a test
// case and students below the pass threshold are failures. Skipped input
// rows are reported as skipped test cases.
func ConvertToJUnit(r *Report) *JUnitTestSuites {
	name := r.Source
	if name == "" {
		name = "gradebook"
	}

	suite := JUnitTestSuite{
		Name:      name,
		Tests:     len(r.Students) + len(r.Skipped),
		Failures:  len(r.Failed),
		Skipped:   len(r.Skipped),
		Timestamp: r.GeneratedAt.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "pass_threshold", Value: gradebook.FormatScore(r.PassThreshold)},
		},
	}
	if r.Summary != nil {
		suite.Properties = append(suite.Properties,
			JUnitProperty{Name: "average", Value: r.fixed(r.Summary.Average)},
			JUnitProperty{Name: "median", Value: r.fixed(r.Summary.Median)},
		)
	}

	for _, st := range r.Students {
		tc := JUnitTestCase{Name: st.Name, Classname: junitClassname}
		if !st.Passed {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: score=%s below pass threshold %s",
					st.Name, gradebook.FormatScore(st.Score), gradebook.FormatScore(r.PassThreshold)),
				Type: "BelowThreshold",
				Body: fmt.Sprintf("grade %s", st.Grade),
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	for _, sk := range r.Skipped {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      fmt.Sprintf("line %d", sk.Line),
			Classname: junitClassname + ".input",
			Skipped:   &JUnitSkipped{Message: string(sk.Reason)},
		})
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnit writes JUnit XML for r to w.
func WriteJUnit(w io.Writer, r *Report) error {
	suites := ConvertToJUnit(r)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	output = append(output, '\n')
	_, err = w.Write(output)
	return err
}
