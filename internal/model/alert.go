package model

import "time"

// Severity grades how urgent an alert is.
type Severity string

// Severities, in increasing order of urgency.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rule types produced by the built-in alert rules.
const (
	RuleCashLow         = "cash_low"
	RuleUnusualSpend    = "unusual_spend"
	RuleInactivity      = "inactivity"
	RuleUpcomingDueDate = "upcoming_due_date"
)

// CandidateAlert is an alert a rule wants to raise. It becomes a persisted
// Alert only after passing the deduplication window check.
type CandidateAlert struct {
	Data     map[string]any
	RuleType string
	Severity Severity
	Title    string
	Message  string
}

// Alert is a persisted, user-visible alert. The engine creates alerts and
// never mutates them afterwards; read/dismissed state belongs to the user
// facing layer.
type Alert struct {
	CreatedAt time.Time
	ReadAt    *time.Time
	Data      map[string]any
	ID        string
	CompanyID string
	RuleType  string
	Title     string
	Message   string
	Severity  Severity
	Read      bool
	Dismissed bool
}

// UnreadCounts buckets a company's unread alerts by severity.
type UnreadCounts struct {
	Critical int
	Warning  int
	Info     int
	Total    int
}
