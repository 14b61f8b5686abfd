package database

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/entrepages/diary-api/internal/models"
)

// ApplyFilter adds the active filter criteria to a select over diary_entries.
// Every condition binds its value through a positional placeholder; no filter
// value ever reaches the query text itself. Conditions combine with AND, and
// an empty criteria set leaves the select unconstrained.
//
// The date range applies only when both bounds are present. A single-sided
// range is deliberately a no-op to match the long-standing API behavior;
// clients rely on it, do not "fix" it here.
func ApplyFilter(q sq.SelectBuilder, f models.FilterCriteria) sq.SelectBuilder {
	if f.StartDate != "" && f.EndDate != "" {
		q = q.Where("entry_date BETWEEN ? AND ?", f.StartDate, f.EndDate)
	}
	if f.Mood != "" {
		q = q.Where(sq.Eq{"mood": f.Mood})
	}
	if f.Favorites == "true" {
		q = q.Where("is_favorite = TRUE")
	}
	if f.Tag != "" {
		q = q.Where("? = ANY(tags)", f.Tag)
	}
	return q
}
