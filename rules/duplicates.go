package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// DuplicateDetection flags rows sharing an email, a first/last name pair or
// a phone number. Runs last (order 100) so it compares fully normalized
// values; formatting differences must not hide duplicates.
func DuplicateDetection() pipeline.Rule {
	return pipeline.NewRule(
		"duplicate_detection",
		"Duplicate Detection",
		"Flags rows that share an email address, full name or phone number.",
		pipeline.RuleValidate,
		OrderDuplicateDetection,
		[]string{schema.FieldEmail, schema.FieldFirstName, schema.FieldLastName, schema.FieldPhone},
		executeDuplicateDetection,
	)
}

func executeDuplicateDetection(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result

	emailCol := in.Locate(schema.FieldEmail)
	firstCol := in.Locate(schema.FieldFirstName)
	lastCol := in.Locate(schema.FieldLastName)
	phoneCol := in.Locate(schema.FieldPhone)

	emailGroups := groupRows(in.Rows, func(row pipeline.Row) string {
		if emailCol == "" {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(pipeline.CellString(row[emailCol])))
	})
	nameGroups := groupRows(in.Rows, func(row pipeline.Row) string {
		if firstCol == "" || lastCol == "" {
			return ""
		}
		first := strings.ToLower(strings.TrimSpace(pipeline.CellString(row[firstCol])))
		last := strings.ToLower(strings.TrimSpace(pipeline.CellString(row[lastCol])))
		if first == "" || last == "" {
			return ""
		}
		return first + "|" + last
	})
	phoneGroups := groupRows(in.Rows, func(row pipeline.Row) string {
		if phoneCol == "" {
			return ""
		}
		return digitsOnly(pipeline.CellString(row[phoneCol]))
	})

	// Rows already flagged as email duplicates; name warnings for the same
	// row pairs would just repeat the finding.
	emailFlagged := make(map[int]string)
	for key, members := range emailGroups {
		for _, idx := range members {
			emailFlagged[idx] = key
		}
	}

	emitGroupWarnings(&res, emailGroups, schema.FieldEmail, "duplicate_email", "email address")
	emitGroupWarnings(&res, phoneGroups, schema.FieldPhone, "duplicate_phone", "phone number")

	nameKeys := make([]string, 0, len(nameGroups))
	for key := range nameGroups {
		nameKeys = append(nameKeys, key)
	}
	sort.Strings(nameKeys)
	for _, key := range nameKeys {
		members := nameGroups[key]
		if allInSameEmailGroup(members, emailFlagged) {
			continue
		}
		warnGroup(&res, members, schema.FieldLastName, "duplicate_name", "full name", groupValue(in.Rows, members, firstCol, lastCol))
	}

	return res, nil
}

// groupRows buckets row indices by a non-empty key.
func groupRows(rows []pipeline.Row, keyFn func(pipeline.Row) string) map[string][]int {
	groups := make(map[string][]int)
	for i, row := range rows {
		key := keyFn(row)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}
	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
		}
	}
	return groups
}

// emitGroupWarnings produces one warning per member of every duplicate
// group, naming the sibling row numbers.
func emitGroupWarnings(res *pipeline.Result, groups map[string][]int, fieldID, kind, label string) {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		warnGroup(res, groups[key], fieldID, kind, label, key)
	}
}

func warnGroup(res *pipeline.Result, members []int, fieldID, kind, label, value string) {
	for _, idx := range members {
		res.AddWarning(idx, fieldID, value, kind,
			fmt.Sprintf("row %d: duplicate %s %q also appears on row(s) %s",
				pipeline.DisplayRow(idx), label, value, siblingList(members, idx)))
	}
}

// siblingList renders the other members' 1-based row numbers.
func siblingList(members []int, self int) string {
	var parts []string
	for _, m := range members {
		if m != self {
			parts = append(parts, fmt.Sprintf("%d", pipeline.DisplayRow(m)))
		}
	}
	return strings.Join(parts, ", ")
}

// allInSameEmailGroup reports whether every member was already flagged by
// the same email duplicate group.
func allInSameEmailGroup(members []int, emailFlagged map[int]string) bool {
	if len(members) == 0 {
		return false
	}
	first, ok := emailFlagged[members[0]]
	if !ok {
		return false
	}
	for _, m := range members[1:] {
		if key, ok := emailFlagged[m]; !ok || key != first {
			return false
		}
	}
	return true
}

// groupValue renders the shared name of a duplicate group for its message.
func groupValue(rows []pipeline.Row, members []int, firstCol, lastCol string) string {
	if len(members) == 0 || firstCol == "" || lastCol == "" {
		return ""
	}
	row := rows[members[0]]
	return strings.TrimSpace(pipeline.CellString(row[firstCol]) + " " + pipeline.CellString(row[lastCol]))
}
