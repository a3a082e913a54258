package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"codewatch/internal/database"
	"codewatch/internal/models"
	"codewatch/pkg/timefmt"
)

// Reporter renders the engagement journal: when deep coding mode was
// triggered and whether the remote actions succeeded.
type Reporter struct {
	repo *database.Repository
}

// New creates a new reporter
func New(repo *database.Repository) *Reporter {
	return &Reporter{repo: repo}
}

// RecentEngagements fetches the most recent engagement attempts
func (r *Reporter) RecentEngagements(limit int) ([]*models.EngageAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	attempts, err := r.repo.RecentEngageAttempts(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement journal: %w", err)
	}
	return attempts, nil
}

// FormatText formats engagement attempts as a human-readable table
func (r *Reporter) FormatText(attempts []*models.EngageAttempt) string {
	output := "Deep Coding Mode Engagements\n\n"

	if len(attempts) == 0 {
		output += "No engagements recorded.\n"
		return output
	}

	output += fmt.Sprintf("%-20s %10s %6s %8s %9s\n", "Time", "Session", "DND", "Status", "Engaged")
	output += "--------------------------------------------------------\n"

	for _, a := range attempts {
		output += fmt.Sprintf("%-20s %10s %6s %8s %9s\n",
			a.Timestamp.Format("2006-01-02 15:04:05"),
			timefmt.HMS(time.Duration(a.ContinuousSeconds)*time.Second),
			okFlag(a.DNDOk),
			okFlag(a.StatusOk),
			okFlag(a.Engaged))
	}

	return output
}

// FormatJSON formats engagement attempts as JSON
func (r *Reporter) FormatJSON(attempts []*models.EngageAttempt) (string, error) {
	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func okFlag(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
