package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// Canonical output formats.
const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04"
)

// dateFieldIDs are the schema fields the rule always covers; columns whose
// header mentions a date are covered too even when unmatched.
var dateFieldIDs = map[string]bool{
	schema.FieldStartDate: true,
	schema.FieldCloseDate: true,
}

var (
	numericDate   = regexp.MustCompile(`^(\d{1,4})([/.\-])(\d{1,2})([/.\-])(\d{1,4})$`)
	unixTimestamp = regexp.MustCompile(`^\d{10}$`)
	compactDate   = regexp.MustCompile(`^\d{8}$`)
	timeSuffix    = regexp.MustCompile(`^(.*?)[\sT]+(\d{1,2}:\d{2}(?::\d{2})?(?:\s*[APap][Mm])?)$`)
)

// monthNameLayouts are tried for values containing letters.
var monthNameLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan-02-2006",
}

// timeLayouts parse the split-off time segment.
var timeLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "3:04:05 PM"}

// DateNormalization parses date columns against an ordered list of format
// patterns and reformats them canonically. Columns whose header implies a
// time component keep a time segment; unparseable values become errors and
// stay as typed.
func DateNormalization() pipeline.Rule {
	return pipeline.NewRule(
		"date_normalization",
		"Date Normalization",
		"Parses dates in common formats and reformats them to the canonical YYYY-MM-DD form.",
		pipeline.RuleTransform,
		OrderDateNormalization,
		[]string{schema.FieldStartDate, schema.FieldCloseDate},
		executeDateNormalization,
	)
}

func executeDateNormalization(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	for _, header := range in.RowKeys() {
		fieldID := fieldIDFor(in, header)
		wantsTime := headerImpliesTime(header)
		if !dateFieldIDs[fieldID] && !headerImpliesDate(header) && !wantsTime {
			continue
		}

		for i, row := range res.Rows {
			value := pipeline.CellString(row[header])
			if isBlank(value) {
				continue
			}

			parsed, _, ok := ParseDateValue(value)
			if !ok {
				kind := pipeline.IssueInvalidDate
				if wantsTime {
					kind = pipeline.IssueInvalidDatetime
				}
				res.AddError(i, fieldID, value, kind,
					fmt.Sprintf("row %d: %q is not a recognizable date", pipeline.DisplayRow(i), value))
				continue
			}

			formatted := parsed.Format(dateFormat)
			if wantsTime {
				formatted = parsed.Format(dateTimeFormat)
			}

			if formatted != value {
				row[header] = formatted
				res.AddChange(i, fieldID, value, formatted, "normalized date format")
			}
		}
	}

	return res, nil
}

// ParseDateValue attempts the supported date patterns in order: ISO and
// other numeric triples (with day/month disambiguation), month-name forms,
// compact digits and Unix timestamps. Reports whether the value carried a
// time component.
func ParseDateValue(value string) (t time.Time, hadTime bool, ok bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false, false
	}

	if unixTimestamp.MatchString(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return time.Unix(secs, 0).UTC(), true, true
		}
	}

	// Split a trailing time segment off so the date part can go through the
	// numeric disambiguation below.
	datePart, timePart := s, ""
	if m := timeSuffix.FindStringSubmatch(s); m != nil {
		datePart, timePart = strings.TrimSpace(m[1]), m[2]
	}

	var date time.Time
	var parsed bool

	if m := numericDate.FindStringSubmatch(datePart); m != nil && m[2] == m[4] {
		date, parsed = parseNumericTriple(m[1], m[3], m[5], m[2])
	} else if compactDate.MatchString(datePart) {
		if d, err := time.Parse("20060102", datePart); err == nil {
			date, parsed = d, true
		}
	} else {
		for _, layout := range monthNameLayouts {
			if d, err := time.Parse(layout, datePart); err == nil {
				date, parsed = d, true
				break
			}
		}
	}

	if !parsed {
		return time.Time{}, false, false
	}

	if timePart != "" {
		for _, layout := range timeLayouts {
			if tp, err := time.Parse(layout, strings.ToUpper(timePart)); err == nil {
				return time.Date(date.Year(), date.Month(), date.Day(),
					tp.Hour(), tp.Minute(), tp.Second(), 0, time.UTC), true, true
			}
		}
		return time.Time{}, false, false
	}

	return date, false, true
}

// parseNumericTriple disambiguates a three-number date. A four-digit first
// component is year-first; otherwise a component above 12 fixes the day
// position, and fully ambiguous values fall back to the separator convention
// (slash reads month-first, dot and dash read day-first).
func parseNumericTriple(a, b, c, sep string) (time.Time, bool) {
	na, _ := strconv.Atoi(a)
	nb, _ := strconv.Atoi(b)
	nc, _ := strconv.Atoi(c)

	var year, month, day int
	switch {
	case len(a) == 4:
		year, month, day = na, nb, nc
	case na > 12 && nb <= 12:
		day, month, year = na, nb, expandYear(nc, len(c))
	case nb > 12 && na <= 12:
		month, day, year = na, nb, expandYear(nc, len(c))
	case sep == "/":
		month, day, year = na, nb, expandYear(nc, len(c))
	default:
		day, month, year = na, nb, expandYear(nc, len(c))
	}

	return calendarDate(year, month, day)
}

// expandYear widens two-digit years; below 50 reads as 20xx.
func expandYear(y, digits int) int {
	if digits > 2 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// calendarDate builds a date and rejects values that only exist through
// normalization overflow (month 13, day 40).
func calendarDate(year, month, day int) (time.Time, bool) {
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// headerImpliesDate reports whether an unmatched column should still be
// treated as a date column.
func headerImpliesDate(header string) bool {
	return strings.Contains(matching.NormalizeKey(header), "date")
}

// headerImpliesTime reports whether the canonical output should keep a time
// segment.
func headerImpliesTime(header string) bool {
	key := matching.NormalizeKey(header)
	return strings.Contains(key, "time") || strings.Contains(key, "datetime") || strings.HasSuffix(key, "at")
}
