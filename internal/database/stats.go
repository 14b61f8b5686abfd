package database

import (
	"context"
	"fmt"

	"github.com/entrepages/diary-api/internal/models"
)

// Stats composes the snapshot from four independent queries. They run
// sequentially without a shared transaction; each sub-result reflects the
// store at the moment of its own query.
func (d *Database) Stats(ctx context.Context) (*models.StatisticsSnapshot, error) {
	snap := &models.StatisticsSnapshot{
		MoodDistribution: make([]models.MoodCount, 0),
		MonthlyActivity:  make([]models.MonthActivity, 0),
	}

	if err := d.Db.GetContext(ctx, &snap.TotalEntries,
		"SELECT COUNT(*) FROM diary_entries"); err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	if err := d.Db.GetContext(ctx, &snap.FavoriteEntries,
		"SELECT COUNT(*) FROM diary_entries WHERE is_favorite = TRUE"); err != nil {
		return nil, fmt.Errorf("counting favorites: %w", err)
	}

	moodQ, _, err := psql.Select("mood", "COUNT(*) AS count").
		From("diary_entries").
		Where("mood IS NOT NULL").
		GroupBy("mood").
		OrderBy("count DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building mood distribution query: %w", err)
	}
	if err := d.Db.SelectContext(ctx, &snap.MoodDistribution, moodQ); err != nil {
		return nil, fmt.Errorf("loading mood distribution: %w", err)
	}

	monthQ, _, err := psql.Select("DATE_TRUNC('month', entry_date) AS month", "COUNT(*) AS entries_count").
		From("diary_entries").
		GroupBy("month").
		OrderBy("month DESC").
		Limit(12).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building monthly activity query: %w", err)
	}
	if err := d.Db.SelectContext(ctx, &snap.MonthlyActivity, monthQ); err != nil {
		return nil, fmt.Errorf("loading monthly activity: %w", err)
	}

	return snap, nil
}
