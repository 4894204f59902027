package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/http/middleware"
	"docflow/internal/service"
)

// UploadFile handles POST /uploads (multipart/form-data, field name: file).
// The returned fileUrl is meant for POST /documents.
//
// @Summary Upload a file
// @Tags uploads
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to store"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} errorPayload "Missing or unreadable file"
// @Failure 401 {object} errorPayload
// @Failure 413 {object} errorPayload "File too large"
// @Failure 500 {object} errorPayload
// @Router /uploads [post]
func UploadFile(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return badRequest("FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return badRequest("FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		up, err := svc.Upload(c.UserContext(), middleware.Principal(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(uploadResponse{
			Message: "File uploaded successfully",
			Key:     up.Key,
			FileURL: up.FileURL,
		})
	}
}
