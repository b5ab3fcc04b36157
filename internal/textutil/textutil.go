// Package textutil holds the small text helpers used when turning editorial
// data into display strings.
package textutil

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

const ellipsis = "..."

// TruncateAt shortens s to at most n runes, ending with an ellipsis when cut.
func TruncateAt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(runes[:n])
	}
	cut := strings.TrimRightFunc(string(runes[:n-len(ellipsis)]), unicode.IsSpace)
	return cut + ellipsis
}

// WrapAt cuts s at the last word boundary before n runes and appends an ellipsis.
func WrapAt(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + ellipsis
}

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpaces(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}
	return collapseSpaces(doc.Text())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const (
	day   = 24 * time.Hour
	month = 30*day + 10*time.Hour + 29*time.Minute + 6*time.Second
	year  = 12 * month
)

// relTimes are the display bands of FromNow. Counts are truncated to the
// band unit; the fixed "2 <unit>" bands keep counts below two off the page.
var relTimes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds%s", DivBy: time.Second},
	{D: 90 * time.Second, Format: "a minute%s", DivBy: time.Second},
	{D: 3 * time.Minute, Format: "2 minutes%s", DivBy: time.Minute},
	{D: 45 * time.Minute, Format: "%d minutes%s", DivBy: time.Minute},
	{D: 90 * time.Minute, Format: "an hour%s", DivBy: time.Minute},
	{D: 3 * time.Hour, Format: "2 hours%s", DivBy: time.Hour},
	{D: 22 * time.Hour, Format: "%d hours%s", DivBy: time.Hour},
	{D: 36 * time.Hour, Format: "a day%s", DivBy: time.Hour},
	{D: 3 * day, Format: "2 days%s", DivBy: day},
	{D: 26 * day, Format: "%d days%s", DivBy: day},
	{D: 45 * day, Format: "a month%s", DivBy: day},
	{D: 3 * month, Format: "2 months%s", DivBy: month},
	{D: 320 * day, Format: "%d months%s", DivBy: month},
	{D: 548 * day, Format: "a year%s", DivBy: day},
	{D: 3 * year, Format: "2 years%s", DivBy: year},
	{D: math.MaxInt64, Format: "%d years%s", DivBy: year},
}

// FromNow describes the distance between t and now without a suffix,
// e.g. "3 hours" or "a day".
func FromNow(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "", "", relTimes)
}
