package ui

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/arthur-debert/dustup/pkg/build"
)

// WriteJUnit writes results as a JUnit XML report, one test case per
// template, so CI systems can display compile failures.
func WriteJUnit(w io.Writer, suiteName string, results []build.Result) error {
	summary := build.Summarize(results)

	var total float64
	for _, r := range results {
		total += r.Duration.Seconds()
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", suiteName)
	suite.CreateAttr("tests", fmt.Sprint(summary.Total))
	suite.CreateAttr("failures", fmt.Sprint(summary.Failed))
	suite.CreateAttr("errors", "0")
	suite.CreateAttr("time", fmt.Sprintf("%.3f", total))

	for _, r := range results {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", suiteName)
		tc.CreateAttr("name", r.Target.Source)
		tc.CreateAttr("time", fmt.Sprintf("%.3f", r.Duration.Seconds()))

		if r.Status != build.StatusSuccess {
			failure := tc.CreateElement("failure")
			failure.CreateAttr("message", "compile failed")
			failure.SetText(r.Message)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
