package handlers

import (
	"log/slog"
	"net/http"

	"github.com/complytrack/compliance-tracker-api/internal/dto"
	"github.com/complytrack/compliance-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

type FunctionHandler struct {
	functionService *services.FunctionService
	log             *slog.Logger
}

func NewFunctionHandler(functionService *services.FunctionService, log *slog.Logger) *FunctionHandler {
	return &FunctionHandler{functionService: functionService, log: log}
}

// ListFunctions returns the function catalog with each function's task types
func (h *FunctionHandler) ListFunctions(c *gin.Context) {
	functions, err := h.functionService.List()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	items := make([]dto.FunctionDTO, len(functions))
	for i, fn := range functions {
		items[i] = dto.ToFunctionDTO(fn)
	}
	c.JSON(http.StatusOK, gin.H{"functions": items})
}
