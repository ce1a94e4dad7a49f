package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"notes-be/internal/service"
)

const qrCodeSize = 256

type QRCodeController struct {
	*Responder
	noteService service.NoteService
	frontendURL string
}

func NewQRCodeController(noteService service.NoteService, frontendURL string, responder *Responder) *QRCodeController {
	return &QRCodeController{
		Responder:   responder,
		noteService: noteService,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// NoteURL is the client URL a note's QR code points at.
func (qc *QRCodeController) NoteURL(noteID string) string {
	return qc.frontendURL + "/notes/" + noteID
}

// GenerateQRCode handles GET /api/notes/:id/qrcode - PNG linking to the note in the client
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	userID, ok := qc.userID(c)
	if !ok {
		return
	}
	noteID, ok := qc.noteID(c)
	if !ok {
		return
	}

	// Only owners get a code; others see the usual 404
	if _, err := qc.noteService.Get(c.Request.Context(), userID, noteID); err != nil {
		qc.fail(c, err)
		return
	}

	pngData, err := qrcode.Encode(qc.NoteURL(noteID), qrcode.Medium, qrCodeSize)
	if err != nil {
		qc.fail(c, fmt.Errorf("failed to generate QR code: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=note-%s.png", noteID))
	c.Data(http.StatusOK, "image/png", pngData)
}
