package metadata

import "regexp"

var (
	isoDatePrefix     = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})[_ -]`)
	compactDatePrefix = regexp.MustCompile(`^([0-9]{4})([0-9]{2})([0-9]{2})[_ -]`)
)

// GuessDate extracts a YYYY-MM-DD date from a filename prefix such as
// "2024-03-15_" or "20240315 ". It returns "" when no prefix matches.
// The digits are not checked against the calendar.
func GuessDate(name string) string {
	for _, re := range []*regexp.Regexp{isoDatePrefix, compactDatePrefix} {
		if m := re.FindStringSubmatch(name); m != nil {
			return m[1] + "-" + m[2] + "-" + m[3]
		}
	}
	return ""
}

// YearOf returns the year part of a date produced by GuessDate
func YearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
