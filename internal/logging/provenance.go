package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// #region log-audit
// LogAudit writes one scored line to the energy_audit table.
func LogAudit(db Execer, entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO energy_audit (chart_id, position, base_score, final_score, tier, terminated_by, tags_json, audit_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ChartID,
		entry.Position,
		entry.BaseScore,
		entry.FinalScore,
		entry.Tier,
		nullIfEmpty(entry.TerminatedBy),
		nullIfEmpty(entry.TagsJSON),
		nullIfEmpty(entry.AuditJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log audit: %w", err)
	}
	return nil
}

// #endregion log-audit

// #region audit-trail
// AuditTrail reads back every audit row of a chart in line order.
func AuditTrail(db *sql.DB, chartID string) ([]AuditEntry, error) {
	rows, err := db.Query(
		`SELECT chart_id, position, base_score, final_score, tier, terminated_by, tags_json, audit_json, created_at
		 FROM energy_audit WHERE chart_id = ? ORDER BY position`, chartID,
	)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var terminated, tagsJSON, auditJSON sql.NullString
		var createdStr string
		if err := rows.Scan(&e.ChartID, &e.Position, &e.BaseScore, &e.FinalScore, &e.Tier,
			&terminated, &tagsJSON, &auditJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		e.TerminatedBy = terminated.String
		e.TagsJSON = tagsJSON.String
		e.AuditJSON = auditJSON.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion audit-trail

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
