package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/entrepages/diary-api/internal/models"
)

var entryColumns = []string{
	"id", "title", "content", "entry_date", "mood", "tags", "photo",
	"is_favorite", "created_at", "updated_at",
}

const returningEntry = "RETURNING id, title, content, entry_date, mood, tags, photo, is_favorite, created_at, updated_at"

// ListEntries returns entries matching the filter, most recent first.
// Creation time breaks date ties so the ordering stays stable.
func (d *Database) ListEntries(ctx context.Context, filter models.FilterCriteria) ([]models.DiaryEntry, error) {
	q := ApplyFilter(psql.Select(entryColumns...).From("diary_entries"), filter).
		OrderBy("entry_date DESC", "created_at DESC")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}
	entries := make([]models.DiaryEntry, 0)
	if err := d.Db.SelectContext(ctx, &entries, sqlStr, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetEntryByID returns nil without error when no entry has the given id.
func (d *Database) GetEntryByID(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	sqlStr, args, err := psql.Select(entryColumns...).
		From("diary_entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get query: %w", err)
	}
	var e models.DiaryEntry
	if err := d.Db.GetContext(ctx, &e, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// CreateEntry persists a new entry and returns it with the generated id and
// timestamps. The entry date defaults to today and tags to an empty array;
// title/content presence is the boundary's responsibility.
func (d *Database) CreateEntry(ctx context.Context, in models.CreateEntryInput) (*models.DiaryEntry, error) {
	entryDate := in.EntryDate
	if entryDate == "" {
		entryDate = time.Now().Format("2006-01-02")
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	q := psql.Insert("diary_entries").
		Columns("title", "content", "entry_date", "mood", "tags", "photo").
		Values(in.Title, in.Content, entryDate, in.Mood, pq.Array(tags), in.Photo).
		Suffix(returningEntry)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}

	var e models.DiaryEntry
	if err := d.Db.GetContext(ctx, &e, sqlStr, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &e, nil
}

// UpdateEntry replaces every mutable field of the entry and refreshes
// updated_at. The photo reference is not touched here. Returns nil when the
// id does not exist.
func (d *Database) UpdateEntry(ctx context.Context, id int64, in models.UpdateEntryInput) (*models.DiaryEntry, error) {
	entryDate := in.EntryDate
	if entryDate == "" {
		entryDate = time.Now().Format("2006-01-02")
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	q := psql.Update("diary_entries").
		Set("title", in.Title).
		Set("content", in.Content).
		Set("entry_date", entryDate).
		Set("mood", in.Mood).
		Set("tags", pq.Array(tags)).
		Set("is_favorite", in.IsFavorite).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix(returningEntry)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update query: %w", err)
	}

	var e models.DiaryEntry
	if err := d.Db.GetContext(ctx, &e, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// DeleteEntry reports whether a row was actually removed. Absence is a normal
// outcome here, not an error.
func (d *Database) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	sqlStr, args, err := psql.Delete("diary_entries").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building delete query: %w", err)
	}
	res, err := d.Db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected (delete): %w", err)
	}
	return ra > 0, nil
}

func (d *Database) ListEntriesByMood(ctx context.Context, mood string) ([]models.DiaryEntry, error) {
	sqlStr, args, err := psql.Select(entryColumns...).
		From("diary_entries").
		Where(sq.Eq{"mood": mood}).
		OrderBy("entry_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building mood query: %w", err)
	}
	entries := make([]models.DiaryEntry, 0)
	if err := d.Db.SelectContext(ctx, &entries, sqlStr, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (d *Database) ListFavoriteEntries(ctx context.Context) ([]models.DiaryEntry, error) {
	sqlStr, args, err := psql.Select(entryColumns...).
		From("diary_entries").
		Where("is_favorite = TRUE").
		OrderBy("entry_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building favorites query: %w", err)
	}
	entries := make([]models.DiaryEntry, 0)
	if err := d.Db.SelectContext(ctx, &entries, sqlStr, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

// ToggleFavorite flips the flag in a single conditional update so concurrent
// toggles cannot lose each other's writes. Returns nil when the id does not
// exist.
func (d *Database) ToggleFavorite(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	q := psql.Update("diary_entries").
		Set("is_favorite", sq.Expr("NOT is_favorite")).
		Where(sq.Eq{"id": id}).
		Suffix(returningEntry)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building toggle query: %w", err)
	}
	var e models.DiaryEntry
	if err := d.Db.GetContext(ctx, &e, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
