package api

import (
	"net/http"

	"github.com/Domenick1991/cargoquote/internal/service/assistant"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	service assistant.AssistantUseCase
}

func NewAssistantHandler(service assistant.AssistantUseCase) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.ask)
}

type askRequest struct {
	History []assistant.Message `json:"history"`
	Message string              `json:"message"`
}

func (h *AssistantHandler) ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	reply, err := h.service.Ask(c.Request.Context(), req.History, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
