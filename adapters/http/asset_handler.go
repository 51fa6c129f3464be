package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	assetUC "github.com/pjackim/webbuddy/internal/application/usecase/asset"
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/pkg/apperror"
)

type AssetHandler struct {
	listUC   *assetUC.ListAssetsUseCase
	createUC *assetUC.CreateAssetUseCase
	updateUC *assetUC.UpdateAssetUseCase
	deleteUC *assetUC.DeleteAssetUseCase
}

func NewAssetHandler(
	listUC *assetUC.ListAssetsUseCase,
	createUC *assetUC.CreateAssetUseCase,
	updateUC *assetUC.UpdateAssetUseCase,
	deleteUC *assetUC.DeleteAssetUseCase,
) *AssetHandler {
	return &AssetHandler{
		listUC:   listUC,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets := h.listUC.Execute(c.Request.Context(), c.Query("screen_id"))
	if assets == nil {
		assets = []asset.Asset{}
	}
	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	a, err := h.createUC.Execute(c.Request.Context(), req.ToDraft())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	input := assetUC.UpdateAssetInput{AssetID: c.Param("id"), Patch: req.ToPatch()}
	a, err := h.updateUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
