package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/srijan008/MedGamma-Server/internal/application"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/ingest"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chats     *application.ChatService
	documents *ingest.Service
}

func NewChatHandler(chats *application.ChatService, documents *ingest.Service) *ChatHandler {
	return &ChatHandler{chats: chats, documents: documents}
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// NewChat creates an empty session and returns its id.
func (h *ChatHandler) NewChat(c *gin.Context) {
	session, err := h.chats.CreateSession(c.Request.Context(), currentUserID(c), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uuid": session.ID})
}

// GetHistory returns the full transcript plus the rolling summary.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	chatID := c.Param("chatId")
	msgs, summary, err := h.chats.GetHistory(c.Request.Context(), chatID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}

	payload := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		payload = append(payload, gin.H{
			"text":      m.Content,
			"sender":    m.Role.SenderTag(),
			"timestamp": m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": payload, "summary": summary})
}

// StreamMessage runs the full reply pipeline and streams the filtered model
// output as plain text chunks.
func (h *ChatHandler) StreamMessage(c *gin.Context) {
	chatID := c.Param("chatId")
	var req struct {
		Message string `json:"message" binding:"required"`
		Mode    string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	mode := domain.ChatMode(req.Mode)
	if mode == "" {
		mode = domain.ModeGeneral
	}

	out, err := h.chats.StreamReply(c.Request.Context(), chatID, currentUserID(c), req.Message, mode)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	// Keep draining on write failure so the pipeline still finishes the turn.
	broken := false
	for chunk := range out {
		if broken {
			continue
		}
		if _, err := c.Writer.WriteString(chunk); err != nil {
			logging.L().Warn("client write failed mid-stream",
				zap.String("session_id", chatID), zap.Error(err))
			broken = true
			continue
		}
		c.Writer.Flush()
	}
}

// Upload ingests a PDF attachment into the session's retrieval index.
func (h *ChatHandler) Upload(c *gin.Context) {
	chatID := c.Param("chatId")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are supported"})
		return
	}

	tmp, err := os.CreateTemp("", "medgamma-upload-*.pdf")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	chunks, err := h.documents.IngestPDF(c.Request.Context(), chatID, currentUserID(c), file.Filename, tmpPath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		case errors.Is(err, ingest.ErrNoText):
			c.JSON(http.StatusBadRequest, gin.H{"error": "document contains no extractable text"})
		default:
			logging.L().Error("pdf ingestion failed",
				zap.String("session_id", chatID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process document"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"filename": file.Filename,
		"chunks":   chunks,
	})
}

// ListSessions returns the caller's sessions, newest first.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sessions, err := h.chats.ListSessions(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	payload := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		payload = append(payload, gin.H{
			"uuid":       s.ID,
			"title":      s.Title,
			"created_at": s.CreatedAt.UTC().Format(time.RFC3339),
			"updated_at": s.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": payload})
}

// DeleteChat removes a session with its messages.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID := c.Param("chatId")
	err := h.chats.DeleteSession(c.Request.Context(), chatID, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		case errors.Is(err, domain.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your chat"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete chat"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
