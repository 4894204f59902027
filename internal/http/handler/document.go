package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/auth"
	"docflow/internal/http/middleware"
	"docflow/internal/repository"
	"docflow/internal/service"
	"docflow/internal/validation"
)

// CreateDocument handles POST /documents for the authenticated user.
//
// @Summary Submit a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body validation.CreateDocumentRequest true "Document"
// @Success 201 {object} documentResponse
// @Failure 400 {object} errorPayload "Validation failed or duplicate title"
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /documents [post]
func CreateDocument(svc service.DocumentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.CreateDocumentRequest
		if err := bind(c, v, &req, validation.CreateDocumentMessages); err != nil {
			return err
		}
		doc, err := svc.Create(c.UserContext(), middleware.Principal(c), service.CreateDocumentInput{
			Title:   req.Title,
			FileURL: req.FileURL,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(documentResponse{
			Message:  "Document created successfully",
			Document: doc,
		})
	}
}

// ListDocuments handles GET /documents with title, status, page and limit filters.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param title query string false "Case-insensitive title substring"
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, 1 to 100" default(10)
// @Success 200 {object} documentListResponse
// @Failure 400 {object} errorPayload "Validation failed"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 500 {object} errorPayload
// @Router /documents [get]
func ListDocuments(svc service.DocumentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c, v)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), repository.DocumentFilter{
			Title:  c.Query("title"),
			Status: statusFilter(q),
		}, pageQuery(q))
		if err != nil {
			return err
		}
		return c.JSON(documentListResponse{
			Message: "Document list fetched successfully",
			Data:    res.Items,
			Meta:    res.Meta,
		})
	}
}

// UpdateDocumentStatus handles PATCH /documents?id=. The new status stays stored
// even when the owner cannot be notified.
//
// @Summary Review a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query string true "Document ID"
// @Param body body validation.StatusUpdateRequest true "New status"
// @Success 200 {object} documentStatusResponse
// @Failure 400 {object} errorPayload "Invalid ID or status"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 404 {object} errorPayload "Document or owner not found"
// @Failure 500 {object} errorPayload "Owner could not be notified"
// @Router /documents [patch]
func UpdateDocumentStatus(svc service.DocumentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := queryID(c)
		if err != nil {
			return err
		}
		var req validation.StatusUpdateRequest
		if err := bind(c, v, &req, validation.StatusUpdateMessages); err != nil {
			return err
		}
		doc, err := svc.UpdateStatus(c.UserContext(), id, req.Status)
		if err != nil {
			return err
		}
		if err := svc.NotifyStatusChange(c.UserContext(), doc); err != nil {
			return err
		}
		return c.JSON(documentStatusResponse{Message: "Document status updated.", Data: doc})
	}
}

// ListUserDocuments handles GET /documents/:userId for the owner or an admin.
//
// @Summary List a user's documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} userDocumentsResponse
// @Failure 400 {object} errorPayload "Invalid userId"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Neither the owner nor an admin"
// @Failure 500 {object} errorPayload
// @Router /documents/{userId} [get]
func ListUserDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := pathUserID(c)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(middleware.Principal(c), userID); err != nil {
			return err
		}
		docs, err := svc.ListByOwner(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(userDocumentsResponse{Message: "Documents fetched successfully for the user", Data: docs})
	}
}
