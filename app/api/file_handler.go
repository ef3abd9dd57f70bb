package api

import (
	"io"

	"docchat/loader"
	"docchat/logger"
	"docchat/store"
	"docchat/types"

	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	indexer  *loader.Indexer
	sessions store.SessionStorer
	log      *logger.Logger
}

func NewFileHandler(indexer *loader.Indexer, sessions store.SessionStorer, log *logger.Logger) *FileHandler {
	return &FileHandler{
		indexer:  indexer,
		sessions: sessions,
		log:      log,
	}
}

// HandleUpload indexes one uploaded document for the session, replacing
// whatever document was indexed before it. A failed upload leaves the
// previous index in place.
func (h *FileHandler) HandleUpload(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return types.ErrBadRequest("session_id query parameter is required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return types.ErrBadRequest("multipart 'file' field is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return types.ErrBadRequest("could not open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.ErrBadRequest("could not read uploaded file")
	}

	idx, chunks, err := h.indexer.Index(c.UserContext(), sessionID, data, fileHeader.Filename)
	if err != nil {
		return err
	}

	if old := h.sessions.ReplaceIndex(sessionID, idx); old != nil {
		if err := old.Drop(c.UserContext()); err != nil {
			h.log.Warn("api", "could not drop replaced index", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	return c.JSON(types.UploadResponse{
		Message: "Document uploaded successfully",
		Chunks:  chunks,
	})
}
