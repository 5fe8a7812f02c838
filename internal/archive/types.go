package archive

import "time"

// #region chart-record
// ChartRecord is one archived chart. InputJSON and ResultJSON hold the exact
// chart.Input and chart.Result that were computed.
type ChartRecord struct {
	ChartID    string
	ParentID   string // chart this one was recast from, if any
	RuleSet    string
	Lines      string // coin values, e.g. "7,8,9,6,7,7"
	Code       string
	Name       string
	InputJSON  string
	ResultJSON string
	Note       string
	CreatedAt  time.Time
}

// #endregion chart-record
