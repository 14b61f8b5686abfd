package database_test

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/entrepages/diary-api/internal/database"
	"github.com/entrepages/diary-api/internal/models"
)

func newMockDatabase(t *testing.T) (*database.Database, sqlmock.Sqlmock, func()) {
	t.Helper()
	dbsql, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(dbsql, "postgres")
	d := &database.Database{Db: sqlxDB}
	return d, mock, func() { sqlxDB.Close() }
}

var entryCols = []string{
	"id", "title", "content", "entry_date", "mood", "tags", "photo",
	"is_favorite", "created_at", "updated_at",
}

func addEntryRow(rows *sqlmock.Rows, id int64, title string, entryDate, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(id, title, "content "+strconv.FormatInt(id, 10), entryDate,
		nil, "{}", nil, false, createdAt, createdAt)
}

func TestListEntries_NoFilter(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(entryCols)
	for i := 0; i < 3; i++ {
		addEntryRow(rows, int64(i+1), "Title "+strconv.Itoa(i),
			now.AddDate(0, 0, -i), now.Add(-time.Duration(i)*time.Minute))
	}

	mock.ExpectQuery(`(?s)^SELECT .* FROM diary_entries ORDER BY entry_date DESC, created_at DESC$`).
		WillReturnRows(rows)

	entries, err := d.ListEntries(context.Background(), models.FilterCriteria{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.True(t, !entries[0].EntryDate.Before(entries[1].EntryDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListEntries_AllFilters(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	filter := models.FilterCriteria{
		StartDate: "2024-01-01",
		EndDate:   "2024-12-31",
		Mood:      "happy",
		Favorites: "true",
		Tag:       "travel",
	}

	mock.ExpectQuery(`(?s)^SELECT .* FROM diary_entries WHERE entry_date BETWEEN \$1 AND \$2 AND mood = \$3 AND is_favorite = TRUE AND \$4 = ANY\(tags\)`).
		WithArgs("2024-01-01", "2024-12-31", "happy", "travel").
		WillReturnRows(sqlmock.NewRows(entryCols))

	entries, err := d.ListEntries(context.Background(), filter)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.NotNil(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntryByID_Found(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(entryCols).AddRow(
		int64(7), "A day", "something happened", now, "happy", "{tag1,tag2}",
		"/uploads/pic.jpg", true, now, now)

	mock.ExpectQuery(`(?s)^SELECT .* FROM diary_entries WHERE id = \$1$`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	e, err := d.GetEntryByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, int64(7), e.ID)
	require.Equal(t, "A day", e.Title)
	require.NotNil(t, e.Mood)
	require.Equal(t, "happy", *e.Mood)
	require.ElementsMatch(t, []string{"tag1", "tag2"}, []string(e.Tags))
	require.True(t, e.IsFavorite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntryByID_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`^SELECT .* FROM diary_entries WHERE id = \$1$`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	e, err := d.GetEntryByID(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, e)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEntry_Defaults(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	today := time.Now().Format("2006-01-02")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO diary_entries")).
		WithArgs("T", "C", today, nil, "{}", nil).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			int64(1), "T", "C", now, nil, "{}", nil, false, now, now))

	e, err := d.CreateEntry(context.Background(), models.CreateEntryInput{
		Title:   "T",
		Content: "C",
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, int64(1), e.ID)
	require.False(t, e.IsFavorite)
	require.NotNil(t, e.Tags)
	require.Empty(t, e.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEntry_Duplicate(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO diary_entries")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := d.CreateEntry(context.Background(), models.CreateEntryInput{
		Title:   "T",
		Content: "C",
	})
	require.ErrorIs(t, err, database.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEntry_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`^UPDATE diary_entries SET`).
		WillReturnError(sql.ErrNoRows)

	e, err := d.UpdateEntry(context.Background(), 42, models.UpdateEntryInput{
		Title:   "T",
		Content: "C",
	})
	require.NoError(t, err)
	require.Nil(t, e)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEntry_FullReplace(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	mood := "calm"

	mock.ExpectQuery(`(?s)^UPDATE diary_entries SET title = \$1, content = \$2, entry_date = \$3, mood = \$4, tags = \$5, is_favorite = \$6, updated_at = NOW\(\) WHERE id = \$7 RETURNING`).
		WithArgs("New title", "new content", "2024-05-05", mood, `{"a","b"}`, true, int64(3)).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			int64(3), "New title", "new content", now, mood, "{a,b}", nil, true, now, now))

	e, err := d.UpdateEntry(context.Background(), 3, models.UpdateEntryInput{
		Title:      "New title",
		Content:    "new content",
		EntryDate:  "2024-05-05",
		Mood:       &mood,
		Tags:       []string{"a", "b"},
		IsFavorite: true,
	})
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, "New title", e.Title)
	require.True(t, e.IsFavorite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntry_TwoOutcomes(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	del := regexp.QuoteMeta("DELETE FROM diary_entries WHERE id = $1")

	mock.ExpectExec(del).WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := d.DeleteEntry(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = d.DeleteEntry(context.Background(), 5)
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	toggle := `(?s)^UPDATE diary_entries SET is_favorite = NOT is_favorite WHERE id = \$1 RETURNING`

	mock.ExpectQuery(toggle).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			int64(2), "T", "C", now, nil, "{}", nil, true, now, now))
	mock.ExpectQuery(toggle).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(
			int64(2), "T", "C", now, nil, "{}", nil, false, now, now))

	e, err := d.ToggleFavorite(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, e.IsFavorite)

	e, err = d.ToggleFavorite(context.Background(), 2)
	require.NoError(t, err)
	require.False(t, e.IsFavorite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavorite_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`^UPDATE diary_entries SET is_favorite = NOT is_favorite`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	e, err := d.ToggleFavorite(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, e)
	require.NoError(t, mock.ExpectationsWereMet())
}
