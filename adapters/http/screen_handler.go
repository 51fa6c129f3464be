package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	screenUC "github.com/pjackim/webbuddy/internal/application/usecase/screen"
	"github.com/pjackim/webbuddy/pkg/apperror"
)

type ScreenHandler struct {
	useCase *screenUC.ScreenUseCase
}

func NewScreenHandler(uc *screenUC.ScreenUseCase) *ScreenHandler {
	return &ScreenHandler{useCase: uc}
}

func (h *ScreenHandler) ListScreens(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCase.ListScreens(c.Request.Context()))
}

func (h *ScreenHandler) CreateScreen(c *gin.Context) {
	var req CreateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	sc, err := h.useCase.CreateScreen(c.Request.Context(), req.ToDraft())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *ScreenHandler) UpdateScreen(c *gin.Context) {
	var req UpdateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	sc, err := h.useCase.UpdateScreen(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

func (h *ScreenHandler) DeleteScreen(c *gin.Context) {
	if err := h.useCase.DeleteScreen(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
