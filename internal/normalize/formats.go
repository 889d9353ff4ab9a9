package normalize

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultOutputFormat keeps dates in the statement's own DD-Mon-YYYY form.
const DefaultOutputFormat = "%d-%b-%Y"

// DefaultInputLayout is the Go layout implied by the default date pattern.
const DefaultInputLayout = "02-Jan-2006"

// DateFormat is an output date format offered to users.
type DateFormat struct {
	Pattern string `json:"pattern"`
	Example string `json:"example"`
}

// exampleDate is the sample shown next to each format.
var exampleDate = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateFormats lists the supported output formats with their example.
var DateFormats = []DateFormat{
	{"%d-%b-%Y", "01-Jan-2023"},
	{"%d/%m/%Y", "01/01/2023"},
	{"%m/%d/%Y", "01/01/2023"},
	{"%Y-%m-%d", "2023-01-01"},
	{"%d-%m-%Y", "01-01-2023"},
	{"%d.%m.%Y", "01.01.2023"},
	{"%b %d, %Y", "Jan 01, 2023"},
	{"%d %b %Y", "01 Jan 2023"},
	{"%Y/%m/%d", "2023/01/01"},
}

// Example renders the sample date with pattern, for user feedback.
func Example(pattern string) (string, error) {
	return strftime.Format(pattern, exampleDate)
}

// IsListed reports whether pattern is one of DateFormats.
func IsListed(pattern string) bool {
	for _, f := range DateFormats {
		if f.Pattern == pattern {
			return true
		}
	}
	return false
}
