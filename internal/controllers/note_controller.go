package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notes-be/internal/models"
	"notes-be/internal/query"
	"notes-be/internal/service"
)

type NoteController struct {
	*Responder
	noteService service.NoteService
}

func NewNoteController(noteService service.NoteService, responder *Responder) *NoteController {
	return &NoteController{
		Responder:   responder,
		noteService: noteService,
	}
}

// ListNotes handles GET /api/notes?page&limit&search&tags&sortBy&sortOrder&archived&pinned
func (nc *NoteController) ListNotes(c *gin.Context) {
	userID, ok := nc.userID(c)
	if !ok {
		return
	}

	filter := query.ParseNoteFilter(c.Request.URL.Query())
	data, err := nc.noteService.List(c.Request.Context(), userID, filter)
	if err != nil {
		nc.fail(c, err)
		return
	}

	nc.ok(c, http.StatusOK, "", data)
}

// GetNote handles GET /api/notes/:id
func (nc *NoteController) GetNote(c *gin.Context) {
	userID, noteID, ok := nc.ids(c)
	if !ok {
		return
	}

	note, err := nc.noteService.Get(c.Request.Context(), userID, noteID)
	if err != nil {
		nc.fail(c, err)
		return
	}

	nc.ok(c, http.StatusOK, "", models.NoteData{Note: note})
}

// CreateNote handles POST /api/notes
func (nc *NoteController) CreateNote(c *gin.Context) {
	userID, ok := nc.userID(c)
	if !ok {
		return
	}

	var req models.CreateNoteRequest
	if !nc.bindJSON(c, &req) {
		return
	}

	note, err := nc.noteService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		nc.fail(c, err)
		return
	}

	nc.ok(c, http.StatusCreated, "Note created successfully", models.NoteData{Note: note})
}

// UpdateNote handles PUT /api/notes/:id - omitted fields keep their values
func (nc *NoteController) UpdateNote(c *gin.Context) {
	userID, noteID, ok := nc.ids(c)
	if !ok {
		return
	}

	var req models.UpdateNoteRequest
	if !nc.bindJSON(c, &req) {
		return
	}

	note, err := nc.noteService.Update(c.Request.Context(), userID, noteID, &req)
	if err != nil {
		nc.fail(c, err)
		return
	}

	nc.ok(c, http.StatusOK, "Note updated successfully", models.NoteData{Note: note})
}

// DeleteNote handles DELETE /api/notes/:id (soft delete)
func (nc *NoteController) DeleteNote(c *gin.Context) {
	userID, noteID, ok := nc.ids(c)
	if !ok {
		return
	}

	if err := nc.noteService.Delete(c.Request.Context(), userID, noteID); err != nil {
		nc.fail(c, err)
		return
	}

	nc.ok(c, http.StatusOK, "Note deleted successfully", nil)
}

// TogglePin handles PATCH /api/notes/:id/pin
func (nc *NoteController) TogglePin(c *gin.Context) {
	userID, noteID, ok := nc.ids(c)
	if !ok {
		return
	}

	note, err := nc.noteService.TogglePin(c.Request.Context(), userID, noteID)
	if err != nil {
		nc.fail(c, err)
		return
	}

	message := "Note unpinned"
	if note.IsPinned {
		message = "Note pinned"
	}
	nc.ok(c, http.StatusOK, message, models.NoteData{Note: note})
}

// ToggleArchive handles PATCH /api/notes/:id/archive
func (nc *NoteController) ToggleArchive(c *gin.Context) {
	userID, noteID, ok := nc.ids(c)
	if !ok {
		return
	}

	note, err := nc.noteService.ToggleArchive(c.Request.Context(), userID, noteID)
	if err != nil {
		nc.fail(c, err)
		return
	}

	message := "Note unarchived"
	if note.IsArchived {
		message = "Note archived"
	}
	nc.ok(c, http.StatusOK, message, models.NoteData{Note: note})
}

func (nc *NoteController) ids(c *gin.Context) (userID, noteID string, ok bool) {
	if userID, ok = nc.userID(c); !ok {
		return "", "", false
	}
	if noteID, ok = nc.noteID(c); !ok {
		return "", "", false
	}
	return userID, noteID, true
}
