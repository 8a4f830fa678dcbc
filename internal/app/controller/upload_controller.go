package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/motoparts-backend/internal/errors"
	"github.com/ikkim/motoparts-backend/internal/middleware"
	"github.com/ikkim/motoparts-backend/internal/storage"
)

// ProductImageFolder is the object key prefix for product images.
const ProductImageFolder = "products"

// UploadPresigner issues presigned upload URLs.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage UploadPresigner
}

func NewUploadController(storage UploadPresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// PresignProductImage returns a presigned PUT URL for a product image
// POST /uploads/product-image
func (ctrl *UploadController) PresignProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignProductImageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.ImageContentTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	response, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, ProductImageFolder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
