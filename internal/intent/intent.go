// Package intent defines the closed set of query intents the assistant
// can act on and the mapping from the classifier's label vocabulary
// onto that set. The two vocabularies are maintained independently, so
// every lookup goes through normalization and tolerates drift.
package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// Intent is one of the fixed query categories the dispatcher handles.
type Intent string

const (
	Attendance  Intent = "attendance"
	Marks       Intent = "marks"
	Fees        Intent = "fees"
	Course      Intent = "course"
	Assignment  Intent = "assignment"
	CollegeInfo Intent = "college_info"
	UserInfo    Intent = "user_info"
	Notices     Intent = "notices"
	General     Intent = "general"
)

// All returns every member of the intent set, in a stable order.
func All() []Intent {
	return []Intent{
		Attendance, Marks, Fees, Course, Assignment,
		CollegeInfo, UserInfo, Notices, General,
	}
}

// Valid reports whether i is a member of the closed intent set.
func (i Intent) Valid() bool {
	switch i {
	case Attendance, Marks, Fees, Course, Assignment,
		CollegeInfo, UserInfo, Notices, General:
		return true
	}
	return false
}

func (i Intent) String() string { return string(i) }

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeLabel converts a raw model label to canonical form:
// lowercase, surrounding whitespace stripped, internal whitespace runs
// collapsed to a single underscore. Normalizing an already-normalized
// label returns it unchanged.
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	return whitespaceRun.ReplaceAllString(s, "_")
}

// labelTable maps normalized classifier labels to application intents.
// Keys must already be in NormalizeLabel form.
var labelTable = map[string]Intent{
	"attendance":   Attendance,
	"marks":        Marks,
	"fees":         Fees,
	"course":       Course,
	"assignment":   Assignment,
	"college_info": CollegeInfo,
	"user_info":    UserInfo,
	"notices":      Notices,
	"general":      General,
}

// FromLabel resolves a raw model label to an intent. Labels that do not
// map to any known intent resolve to General rather than failing, since
// the trained vocabulary may drift ahead of the application's.
func FromLabel(label string) Intent {
	if it, ok := labelTable[NormalizeLabel(label)]; ok {
		return it
	}
	return General
}

// CheckCoverage verifies that every application intent is reachable
// from at least one label in the model's label space. Run once at
// engine construction so a model/application mismatch fails at startup
// instead of silently routing everything to General.
func CheckCoverage(labels []string) error {
	seen := make(map[Intent]bool, len(labels))
	for _, label := range labels {
		if it, ok := labelTable[NormalizeLabel(label)]; ok {
			seen[it] = true
		}
	}
	var missing []string
	for _, it := range All() {
		if !seen[it] {
			missing = append(missing, it.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("model label space does not cover intents: %s", strings.Join(missing, ", "))
	}
	return nil
}
