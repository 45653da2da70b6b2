package model

// FailureList accumulates the identifiers of failed downloads across one
// batch run, in order. Entries whose records could not be identified are
// kept as placeholders so the list still reflects every failure, but only
// identified entries make it into the report.
type FailureList struct {
	ids []ID
}

// Record appends a failed download's identifier.
func (f *FailureList) Record(id ID) {
	f.ids = append(f.ids, id)
}

// RecordUnidentified appends a placeholder for a record that yielded no
// identifier.
func (f *FailureList) RecordUnidentified() {
	f.ids = append(f.ids, 0)
}

// Len returns the number of recorded failures, placeholders included.
func (f *FailureList) Len() int {
	return len(f.ids)
}

// Empty reports whether no failure was recorded.
func (f *FailureList) Empty() bool {
	return len(f.ids) == 0
}

// Lines returns the identified failures as decimal strings, one report line
// per entry. Placeholders are skipped.
func (f *FailureList) Lines() []string {
	var lines []string
	for _, id := range f.ids {
		if id == 0 {
			continue
		}
		lines = append(lines, id.String())
	}
	return lines
}
