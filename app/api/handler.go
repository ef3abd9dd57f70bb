package api

import (
	"docchat/app/engine"
	"docchat/types"

	"github.com/gofiber/fiber/v2"
)

type QueryHandler struct {
	engine *engine.Engine
}

func NewQueryHandler(e *engine.Engine) *QueryHandler {
	return &QueryHandler{engine: e}
}

// HandleQuery answers one question within a session.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	var params types.QueryParams
	if c.BodyParser(&params) != nil {
		return types.ErrBadRequest("invalid JSON request")
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return types.NewValidationError(errors)
	}

	answer, err := h.engine.Answer(c.UserContext(), params.SessionID, params.Question, params.Mode)
	if err != nil {
		return err
	}

	return c.JSON(types.QueryResponse{
		Answer:    answer,
		SessionID: params.SessionID,
	})
}
