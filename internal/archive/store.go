// Package archive keeps computed charts and their per-line audit rows in
// SQLite.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/logging"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS charts (
	chart_id     TEXT PRIMARY KEY,
	parent_id    TEXT,
	rule_set     TEXT NOT NULL,
	lines        TEXT NOT NULL,
	code         TEXT NOT NULL,
	name         TEXT NOT NULL,
	input_json   TEXT NOT NULL,
	result_json  TEXT NOT NULL,
	note         TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES charts(chart_id)
);

CREATE TABLE IF NOT EXISTS energy_audit (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	chart_id      TEXT NOT NULL,
	position      INTEGER NOT NULL,
	base_score    INTEGER NOT NULL,
	final_score   INTEGER NOT NULL,
	tier          TEXT NOT NULL,
	terminated_by TEXT,
	tags_json     TEXT,
	audit_json    TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (chart_id) REFERENCES charts(chart_id)
);

CREATE INDEX IF NOT EXISTS idx_energy_audit_chart ON energy_audit(chart_id);
`

// #endregion schema

// #region store-struct
// Store manages archived charts in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save
// SaveChart archives a computed chart under a new ID and writes one audit
// row per scored line, atomically.
func (s *Store) SaveChart(in chart.Input, res *chart.Result, note string) (ChartRecord, error) {
	return s.save(in, res, "", note)
}

// SaveRecast archives a chart recomputed from parentID, typically under a
// different rule set.
func (s *Store) SaveRecast(parentID string, in chart.Input, res *chart.Result, note string) (ChartRecord, error) {
	if parentID == "" {
		return ChartRecord{}, fmt.Errorf("recast needs a parent chart id")
	}
	return s.save(in, res, parentID, note)
}

func (s *Store) save(in chart.Input, res *chart.Result, parentID, note string) (ChartRecord, error) {
	if res == nil || res.Hexagram == nil {
		return ChartRecord{}, fmt.Errorf("save chart: empty result")
	}
	inJSON, err := json.Marshal(in)
	if err != nil {
		return ChartRecord{}, fmt.Errorf("marshal input: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return ChartRecord{}, fmt.Errorf("marshal result: %w", err)
	}

	rec := ChartRecord{
		ChartID:    uuid.New().String(),
		ParentID:   parentID,
		RuleSet:    res.RuleSet,
		Lines:      chart.FormatLines(in.Lines),
		Code:       res.Hexagram.Code,
		Name:       res.Hexagram.Name,
		InputJSON:  string(inJSON),
		ResultJSON: string(resJSON),
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ChartRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO charts (chart_id, parent_id, rule_set, lines, code, name, input_json, result_json, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ChartID, nullIfEmpty(rec.ParentID), rec.RuleSet, rec.Lines, rec.Code, rec.Name,
		rec.InputJSON, rec.ResultJSON, nullIfEmpty(rec.Note), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ChartRecord{}, fmt.Errorf("insert chart: %w", err)
	}

	for _, r := range res.Energy {
		tagsJSON, err := json.Marshal(r.Tags)
		if err != nil {
			return ChartRecord{}, fmt.Errorf("marshal tags: %w", err)
		}
		auditJSON, err := json.Marshal(r.AuditLog)
		if err != nil {
			return ChartRecord{}, fmt.Errorf("marshal audit log: %w", err)
		}
		err = logging.LogAudit(tx, logging.AuditEntry{
			ChartID:      rec.ChartID,
			Position:     r.Position,
			BaseScore:    r.BaseScore,
			FinalScore:   r.FinalScore,
			Tier:         string(r.Tier),
			TerminatedBy: r.TerminatedBy,
			TagsJSON:     string(tagsJSON),
			AuditJSON:    string(auditJSON),
			CreatedAt:    rec.CreatedAt,
		})
		if err != nil {
			return ChartRecord{}, fmt.Errorf("line %d: %w", r.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ChartRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion save

// #region get
const selectChart = `SELECT chart_id, parent_id, rule_set, lines, code, name, input_json, result_json, note, created_at FROM charts`

type scanner interface {
	Scan(dest ...any) error
}

func scanChart(row scanner) (ChartRecord, error) {
	var rec ChartRecord
	var parentID, note sql.NullString
	var createdStr string
	if err := row.Scan(&rec.ChartID, &parentID, &rec.RuleSet, &rec.Lines, &rec.Code, &rec.Name,
		&rec.InputJSON, &rec.ResultJSON, &note, &createdStr); err != nil {
		return ChartRecord{}, err
	}
	rec.ParentID = parentID.String
	rec.Note = note.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// GetChart retrieves an archived chart by ID.
func (s *Store) GetChart(id string) (ChartRecord, error) {
	rec, err := scanChart(s.db.QueryRow(selectChart+` WHERE chart_id = ?`, id))
	if err != nil {
		return ChartRecord{}, fmt.Errorf("get chart %s: %w", id, err)
	}
	return rec, nil
}

// LoadInput decodes the input an archived chart was computed from.
func (s *Store) LoadInput(id string) (chart.Input, error) {
	rec, err := s.GetChart(id)
	if err != nil {
		return chart.Input{}, err
	}
	var in chart.Input
	if err := json.Unmarshal([]byte(rec.InputJSON), &in); err != nil {
		return chart.Input{}, fmt.Errorf("unmarshal input %s: %w", id, err)
	}
	return in, nil
}

// LoadResult decodes the stored result of an archived chart.
func (s *Store) LoadResult(id string) (*chart.Result, error) {
	rec, err := s.GetChart(id)
	if err != nil {
		return nil, err
	}
	var res chart.Result
	if err := json.Unmarshal([]byte(rec.ResultJSON), &res); err != nil {
		return nil, fmt.Errorf("unmarshal result %s: %w", id, err)
	}
	return &res, nil
}

// #endregion get

// #region list
// ListCharts returns the most recent charts, newest first.
func (s *Store) ListCharts(limit int) ([]ChartRecord, error) {
	rows, err := s.db.Query(selectChart+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	defer rows.Close()

	var records []ChartRecord
	for rows.Next() {
		rec, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Recasts lists the charts recast from id, oldest first.
func (s *Store) Recasts(id string) ([]ChartRecord, error) {
	rows, err := s.db.Query(selectChart+` WHERE parent_id = ? ORDER BY created_at, rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("list recasts: %w", err)
	}
	defer rows.Close()

	var records []ChartRecord
	for rows.Next() {
		rec, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AuditTrail returns the per-line audit rows of a chart in line order.
func (s *Store) AuditTrail(id string) ([]logging.AuditEntry, error) {
	return logging.AuditTrail(s.db, id)
}

// #endregion list

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
