package handlers

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/httpresp"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/storage"
)

const maxUploadBytes = 5 << 20 // 5 MB

type UploadHandler struct {
	db       *gorm.DB
	uploader storage.Uploader
}

func NewUploadHandler(db *gorm.DB, uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{db: db, uploader: uploader}
}

// ProfilePhoto recebe a imagem via multipart, envia ao bucket e grava
// a URL no perfil do usuário.
func (h *UploadHandler) ProfilePhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Envie o arquivo no campo 'file'.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "A imagem deve ter no máximo 5MB.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		httperr.BadRequest(c, "invalid_file_type", "Apenas imagens são aceitas.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Não foi possível ler o arquivo.")
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), data)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Não foi possível enviar a imagem.")
		return
	}

	err = h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("profile_photo", url).Error
	if err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Não foi possível atualizar o perfil.")
		return
	}

	httpresp.OK(c, gin.H{"url": url})
}
