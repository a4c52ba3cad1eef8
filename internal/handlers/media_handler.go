package handlers

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/roamly/roamly-backend/internal/httpx"
	"github.com/roamly/roamly-backend/internal/service"
	"github.com/roamly/roamly-backend/internal/storage"
)

// MediaHandler uploads processed images for user avatars and community cover
// images. Endpoints return 503 when storage was not configured at boot.
type MediaHandler struct {
	store            *storage.S3Storage
	userService      *service.UserService
	communityService *service.CommunityService
}

func NewMediaHandler(store *storage.S3Storage, userService *service.UserService, communityService *service.CommunityService) *MediaHandler {
	return &MediaHandler{
		store:            store,
		userService:      userService,
		communityService: communityService,
	}
}

func (h *MediaHandler) UploadAvatar(c *fiber.Ctx) error {
	if h.store == nil {
		return httpx.Unavailable(c, "storage_unconfigured", "Media storage is not configured")
	}

	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	data, err := h.processUpload(c, storage.AvatarOptions())
	if err != nil {
		return mapUploadError(c, err)
	}

	key := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.NewString())
	if err := h.store.PutObject(c.Context(), key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return httpx.Internal(c, "upload_failed")
	}

	user, err := h.userService.UpdateAvatar(userID, h.store.PublicURL(key))
	if err != nil {
		return mapServiceError(c, err, "update_avatar_failed")
	}

	return c.JSON(user.ToResponse())
}

func (h *MediaHandler) UploadCommunityImage(c *fiber.Ctx) error {
	if h.store == nil {
		return httpx.Unavailable(c, "storage_unconfigured", "Media storage is not configured")
	}

	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	communityID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_community", "Invalid community ID")
	}

	data, err := h.processUpload(c, storage.CoverOptions())
	if err != nil {
		return mapUploadError(c, err)
	}

	key := fmt.Sprintf("communities/%d/%s.jpg", communityID, uuid.NewString())
	if err := h.store.PutObject(c.Context(), key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		return httpx.Internal(c, "upload_failed")
	}

	community, err := h.communityService.UpdateImage(communityID, userID, h.store.PublicURL(key))
	if err != nil {
		return mapServiceError(c, err, "update_image_failed")
	}

	return c.JSON(community.ToResponse())
}

func (h *MediaHandler) processUpload(c *fiber.Ctx, opts storage.ImageOptions) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, storage.ErrInvalidImage
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, storage.ErrInvalidImage
	}
	defer f.Close()

	data, _, err := storage.ProcessImage(f, opts)
	return data, err
}

func mapUploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return httpx.BadRequest(c, "file_too_large", "File exceeds the size limit")
	case errors.Is(err, storage.ErrUnsupported):
		return httpx.BadRequest(c, "unsupported_type", "Only JPEG, PNG and WebP images are supported")
	case errors.Is(err, storage.ErrInvalidImage):
		return httpx.BadRequest(c, "invalid_image", "Could not read the uploaded image")
	default:
		return httpx.Internal(c, "process_image_failed")
	}
}
