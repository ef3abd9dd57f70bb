package api

import (
	"docchat/logger"
	"docchat/store"
	"docchat/types"

	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessions store.SessionStorer
	log      *logger.Logger
}

func NewSessionHandler(sessions store.SessionStorer, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log,
	}
}

// HandleHistory returns the session's turns oldest first. Unknown ids read
// as an empty history: a deleted session is indistinguishable from one that
// never existed.
func (h *SessionHandler) HandleHistory(c *fiber.Ctx) error {
	return c.JSON(h.sessions.History(c.Params("session_id")))
}

// HandleDelete removes the session together with its index and history.
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	idx, ok := h.sessions.Delete(sessionID)
	if !ok {
		return types.ErrSessionNotFound(sessionID)
	}
	if idx != nil {
		if err := idx.Drop(c.UserContext()); err != nil {
			h.log.Warn("api", "could not drop session index", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	return c.JSON(types.MessageResponse{Message: "Session deleted"})
}

// HandleList lists sessions for the sidebar, newest first.
func (h *SessionHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.sessions.List())
}
