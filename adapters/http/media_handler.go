package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/pjackim/webbuddy/internal/application/usecase/media"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file limit itself.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	uploadUC *mediaUC.UploadMediaUseCase
	rawUC    *mediaUC.GetRawMediaUseCase
	infoUC   *mediaUC.GetMediaInfoUseCase
	maxBytes int64
	logger   logger.Logger
}

func NewMediaHandler(
	uploadUC *mediaUC.UploadMediaUseCase,
	rawUC *mediaUC.GetRawMediaUseCase,
	infoUC *mediaUC.GetMediaInfoUseCase,
	maxBytes int64,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		uploadUC: uploadUC,
		rawUC:    rawUC,
		infoUC:   infoUC,
		maxBytes: maxBytes,
		logger:   log,
	}
}

func (h *MediaHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.NewPayloadTooLarge(h.maxBytes))
			return
		}
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > h.maxBytes {
		c.Error(apperror.NewPayloadTooLarge(h.maxBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read file", err))
		return
	}

	out, err := h.uploadUC.Execute(c.Request.Context(), mediaUC.UploadMediaInput{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		URL:            out.URL,
		StoredFilename: out.StoredFilename,
		Metadata:       out.Metadata,
	})
}

func (h *MediaHandler) GetRawMedia(c *gin.Context) {
	out, err := h.rawUC.Execute(c.Request.Context(), c.Param("filename"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func (h *MediaHandler) GetMediaInfo(c *gin.Context) {
	meta, err := h.infoUC.Execute(c.Request.Context(), c.Param("filename"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
