package logging

import "time"

// #region audit-entry
// AuditEntry is a single row in the energy_audit table: the scored outcome
// of one line of an archived chart.
type AuditEntry struct {
	ChartID      string
	Position     int
	BaseScore    int
	FinalScore   int
	Tier         string
	TerminatedBy string // empty when every step ran
	TagsJSON     string
	AuditJSON    string
	CreatedAt    time.Time
}

// #endregion audit-entry
