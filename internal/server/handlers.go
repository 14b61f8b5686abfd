package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entrepages/diary-api/internal/database"
	"github.com/entrepages/diary-api/internal/models"
	"github.com/entrepages/diary-api/internal/report"
)

// entryRequest is the wire shape of create and update bodies. Tags stay raw
// because clients send either a JSON array or a comma-joined string; the
// normalization happens here so the core only ever sees a []string.
type entryRequest struct {
	Title      string          `json:"title" validate:"required"`
	Content    string          `json:"content" validate:"required"`
	EntryDate  string          `json:"entryDate"`
	Mood       *string         `json:"mood"`
	Tags       json.RawMessage `json:"tags"`
	IsFavorite *bool           `json:"isFavorite"`
}

func filterFromQuery(r *http.Request) models.FilterCriteria {
	q := r.URL.Query()
	return models.FilterCriteria{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Mood:      q.Get("mood"),
		Favorites: q.Get("favorites"),
		Tag:       q.Get("tag"),
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// decodeTags accepts either a JSON array of strings or a single comma-joined
// string and returns the normalized tag list.
func decodeTags(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil, errors.New("tags must be an array or a comma-separated string")
	}
	return splitTags(joined), nil
}

func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// GET /api/diary-entries
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.ListEntries(r.Context(), filterFromQuery(r))
	if err != nil {
		s.respondStorageError(w, r, "fetch diary entries", err)
		return
	}
	s.respondList(w, entries, len(entries))
}

// GET /api/diary-entries/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.db.Stats(r.Context())
	if err != nil {
		s.respondStorageError(w, r, "fetch diary statistics", err)
		return
	}
	s.respondData(w, http.StatusOK, snap, "")
}

// GET /api/diary-entries/favorites
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.ListFavoriteEntries(r.Context())
	if err != nil {
		s.respondStorageError(w, r, "fetch favorite entries", err)
		return
	}
	s.respondList(w, entries, len(entries))
}

// GET /api/diary-entries/mood/{mood}
func (s *Server) handleListByMood(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.ListEntriesByMood(r.Context(), chi.URLParam(r, "mood"))
	if err != nil {
		s.respondStorageError(w, r, "fetch entries by mood", err)
		return
	}
	s.respondList(w, entries, len(entries))
}

// GET /api/diary-entries/{id}
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid entry id.")
		return
	}
	entry, err := s.db.GetEntryByID(r.Context(), id)
	if err != nil {
		s.respondStorageError(w, r, "fetch diary entry", err)
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, "Diary entry not found.")
		return
	}
	s.respondData(w, http.StatusOK, entry, "")
}

// POST /api/diary-entries
// Accepts JSON or multipart/form-data with an optional single "photo" part.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	req, isMultipart, ok := s.decodeEntryRequest(w, r)
	if !ok {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}
	tags, err := decodeTags(req.Tags)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var photo *string
	if isMultipart {
		photo, err = s.savePhoto(r)
		if err != nil {
			if errors.Is(err, errUploadRejected) {
				s.respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.respondStorageError(w, r, "store the uploaded photo", err)
			return
		}
	}

	entry, err := s.db.CreateEntry(r.Context(), models.CreateEntryInput{
		Title:     req.Title,
		Content:   req.Content,
		EntryDate: req.EntryDate,
		Mood:      req.Mood,
		Tags:      tags,
		Photo:     photo,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			s.respondError(w, http.StatusBadRequest, "Entry already exists.")
			return
		}
		s.respondStorageError(w, r, "create diary entry", err)
		return
	}
	s.respondData(w, http.StatusCreated, entry, "Diary entry created successfully!")
}

// decodeEntryRequest reads the body in either supported shape. It reports
// whether the request was multipart so the caller knows to look for a photo.
func (s *Server) decodeEntryRequest(w http.ResponseWriter, r *http.Request) (entryRequest, bool, bool) {
	var req entryRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
			return req, true, false
		}
		req.Title = r.FormValue("title")
		req.Content = r.FormValue("content")
		req.EntryDate = r.FormValue("entryDate")
		if mood := r.FormValue("mood"); mood != "" {
			req.Mood = &mood
		}
		if tags := r.FormValue("tags"); tags != "" {
			raw, _ := json.Marshal(tags)
			req.Tags = raw
		}
		return req, true, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false, false
	}
	return req, false, true
}

// PUT /api/diary-entries/{id}
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid entry id.")
		return
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Title and content are required.")
		return
	}
	tags, err := decodeTags(req.Tags)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	isFavorite := false
	if req.IsFavorite != nil {
		isFavorite = *req.IsFavorite
	}

	entry, err := s.db.UpdateEntry(r.Context(), id, models.UpdateEntryInput{
		Title:      req.Title,
		Content:    req.Content,
		EntryDate:  req.EntryDate,
		Mood:       req.Mood,
		Tags:       tags,
		IsFavorite: isFavorite,
	})
	if err != nil {
		s.respondStorageError(w, r, "update diary entry", err)
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, "Diary entry not found.")
		return
	}
	s.respondData(w, http.StatusOK, entry, "Diary entry updated successfully!")
}

// PATCH /api/diary-entries/{id}/favorite
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid entry id.")
		return
	}
	entry, err := s.db.ToggleFavorite(r.Context(), id)
	if err != nil {
		s.respondStorageError(w, r, "toggle favorite status", err)
		return
	}
	if entry == nil {
		s.respondError(w, http.StatusNotFound, "Diary entry not found.")
		return
	}
	message := "Entry removed from favorites!"
	if entry.IsFavorite {
		message = "Entry added to favorites!"
	}
	s.respondData(w, http.StatusOK, entry, message)
}

// DELETE /api/diary-entries/{id}
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid entry id.")
		return
	}
	deleted, err := s.db.DeleteEntry(r.Context(), id)
	if err != nil {
		s.respondStorageError(w, r, "delete diary entry", err)
		return
	}
	if !deleted {
		s.respondError(w, http.StatusNotFound, "Diary entry not found.")
		return
	}
	s.respondMessage(w, http.StatusOK, "Diary entry deleted successfully.")
}

// GET /api/report/pdf
// Same filters as the list endpoint minus tag. The document is rendered into
// memory first so a storage fault becomes a clean JSON 500 instead of a
// truncated download.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	filter.Tag = ""

	var buf bytes.Buffer
	if err := s.reports.WritePDF(r.Context(), filter, &buf); err != nil {
		s.respondStorageError(w, r, "generate the diary report", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+report.FileName(time.Now()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
