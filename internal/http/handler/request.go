package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/validation"
)

// bind decodes the JSON body into dst and checks it against its schema.
func bind(c *fiber.Ctx, v *validation.Validator, dst any, msgs validation.Messages) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "invalid request body")
	}
	return v.Validate(dst, msgs)
}

// queryID reads the id query parameter of the PATCH and DELETE routes.
func queryID(c *fiber.Ctx) (string, error) {
	id := c.Query("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "Invalid ID")
	}
	return id, nil
}

// pathUserID reads the userId path parameter of the per-user routes.
func pathUserID(c *fiber.Ctx) (string, error) {
	id := c.Params("userId")
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "Invalid userId")
	}
	return id, nil
}

// listQuery parses and validates the shared pagination and filter parameters.
// Unparsable numbers are turned into values that fail their rule, so they are
// reported alongside every other violation.
func listQuery(c *fiber.Ctx, v *validation.Validator) (validation.ListQuery, error) {
	q := validation.ListQuery{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Status: c.Query("status"),
	}
	if raw := c.Query("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			amount = -1
		}
		q.Amount = &amount
	}
	if err := v.Validate(&q, validation.ListQueryMessages); err != nil {
		return q, err
	}
	return q, nil
}

func queryInt(c *fiber.Ctx, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return -1
	}
	return n
}

func pageQuery(q validation.ListQuery) repository.PageQuery {
	return repository.PageQuery{Page: q.Page, Limit: q.Limit}
}

// Validated by listQuery, so the conversion cannot fail.
func statusFilter(q validation.ListQuery) model.Status {
	return model.Status(q.Status)
}
