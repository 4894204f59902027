package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/auth"
	"docflow/internal/http/middleware"
	"docflow/internal/repository"
	"docflow/internal/service"
	"docflow/internal/validation"
)

func paymentInput(req validation.CreatePaymentRequest) service.CreatePaymentInput {
	return service.CreatePaymentInput{Title: req.Title, Amount: *req.Amount}
}

// CreatePayment handles POST /payments.
//
// @Summary Record a payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body validation.CreatePaymentRequest true "Payment"
// @Success 201 {object} paymentResponse
// @Failure 400 {object} errorPayload "Validation failed or duplicate title"
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /payments [post]
func CreatePayment(svc service.PaymentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.CreatePaymentRequest
		if err := bind(c, v, &req, validation.CreatePaymentMessages); err != nil {
			return err
		}
		p, err := svc.Create(c.UserContext(), middleware.Principal(c), paymentInput(req))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(paymentResponse{
			Message: "Payment created successfully",
			Payment: p,
		})
	}
}

// StripeCheckout handles POST /stripe-payment: it opens a checkout session and
// records the pending payment against it.
//
// @Summary Open a Stripe checkout session
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body validation.CreatePaymentRequest true "Payment"
// @Success 200 {object} checkoutResponse
// @Failure 400 {object} errorPayload "Validation failed or duplicate title"
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload "Payment processor failure"
// @Router /stripe-payment [post]
func StripeCheckout(svc service.PaymentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req validation.CreatePaymentRequest
		if err := bind(c, v, &req, validation.CreatePaymentMessages); err != nil {
			return err
		}
		sessionID, err := svc.Checkout(c.UserContext(), middleware.Principal(c), paymentInput(req))
		if err != nil {
			return err
		}
		return c.JSON(checkoutResponse{SessionID: sessionID})
	}
}

// ListPayments handles GET /payments with title, status, amount, page and limit filters.
//
// @Summary List payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param title query string false "Case-insensitive title substring"
// @Param status query string false "pending, approved or rejected"
// @Param amount query number false "Exact amount"
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, 1 to 100" default(10)
// @Success 200 {object} paymentListResponse
// @Failure 400 {object} errorPayload "Validation failed"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 500 {object} errorPayload
// @Router /payments [get]
func ListPayments(svc service.PaymentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c, v)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), repository.PaymentFilter{
			Title:  c.Query("title"),
			Status: statusFilter(q),
			Amount: q.Amount,
		}, pageQuery(q))
		if err != nil {
			return err
		}
		return c.JSON(paymentListResponse{
			Message: "Payment list fetched successfully",
			Data:    res.Items,
			Meta:    res.Meta,
		})
	}
}

// UpdatePaymentStatus handles PATCH /payments?id=.
//
// @Summary Review a payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query string true "Payment ID"
// @Param body body validation.StatusUpdateRequest true "New status"
// @Success 200 {object} paymentStatusResponse
// @Failure 400 {object} errorPayload "Invalid ID or status"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 404 {object} errorPayload "Payment or owner not found"
// @Failure 500 {object} errorPayload "Owner could not be notified"
// @Router /payments [patch]
func UpdatePaymentStatus(svc service.PaymentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := queryID(c)
		if err != nil {
			return err
		}
		var req validation.StatusUpdateRequest
		if err := bind(c, v, &req, validation.StatusUpdateMessages); err != nil {
			return err
		}
		p, err := svc.UpdateStatus(c.UserContext(), id, req.Status)
		if err != nil {
			return err
		}
		if err := svc.NotifyStatusChange(c.UserContext(), p); err != nil {
			return err
		}
		return c.JSON(paymentStatusResponse{Message: "Payment status updated.", Data: p})
	}
}

// DeletePayment handles DELETE /payments?id=. Deleting a missing payment succeeds.
//
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id query string true "Payment ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorPayload "Invalid ID"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Not an admin"
// @Failure 500 {object} errorPayload
// @Router /payments [delete]
func DeletePayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := queryID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(messageResponse{Message: "Payment deleted successfully"})
	}
}

// ListUserPayments handles GET /payments/:userId for the owner or an admin.
//
// @Summary List a user's payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} userPaymentsResponse
// @Failure 400 {object} errorPayload "Invalid userId"
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload "Neither the owner nor an admin"
// @Failure 500 {object} errorPayload
// @Router /payments/{userId} [get]
func ListUserPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := pathUserID(c)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(middleware.Principal(c), userID); err != nil {
			return err
		}
		ps, err := svc.ListByOwner(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(userPaymentsResponse{Message: "Payments fetched successfully for the user", Data: ps})
	}
}
