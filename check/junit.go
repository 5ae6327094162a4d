package check

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// JUnit builds JUnit XML report, one testsuite per check group.
func JUnit(results Results, elapsed time.Duration) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "themecheck")
	suites.CreateAttr("tests", strconv.Itoa(results.Total()))
	suites.CreateAttr("failures", strconv.Itoa(results.Failed()))
	suites.CreateAttr("time", seconds(elapsed))

	for _, group := range results.Groups() {
		rs := results.Group(group)

		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", group)
		suite.CreateAttr("tests", strconv.Itoa(rs.Total()))
		suite.CreateAttr("failures", strconv.Itoa(rs.Failed()))

		for _, r := range rs {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("classname", group)
			tc.CreateAttr("name", r.Name)
			if r.Passed {
				tc.CreateElement("system-out").SetText(r.Message)
				continue
			}
			f := tc.CreateElement("failure")
			f.CreateAttr("message", r.Message)
			f.SetText(r.ID() + ": " + r.Message)
		}
	}
	doc.Indent(2)
	return doc
}

// WriteJUnit writes JUnit XML report to w.
func WriteJUnit(w io.Writer, results Results, elapsed time.Duration) error {
	if _, err := JUnit(results, elapsed).WriteTo(w); err != nil {
		return fmt.Errorf("unable to write junit report: %w", err)
	}
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
