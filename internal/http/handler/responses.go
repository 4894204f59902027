package handler

import (
	"docflow/internal/model"
	"docflow/internal/repository"
)

// Response bodies. They are named so the swag annotations can refer to them.

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type loginResponse struct {
	Message      string      `json:"message"`
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type refreshResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type documentResponse struct {
	Message  string          `json:"message"`
	Document *model.Document `json:"document"`
}

type documentStatusResponse struct {
	Message string          `json:"message"`
	Data    *model.Document `json:"data"`
}

type documentListResponse struct {
	Message string           `json:"message"`
	Data    []model.Document `json:"data"`
	Meta    repository.Meta  `json:"meta"`
}

type userDocumentsResponse struct {
	Message string           `json:"message"`
	Data    []model.Document `json:"data"`
}

type paymentResponse struct {
	Message string         `json:"message"`
	Payment *model.Payment `json:"payment"`
}

type paymentStatusResponse struct {
	Message string         `json:"message"`
	Data    *model.Payment `json:"data"`
}

type paymentListResponse struct {
	Message string          `json:"message"`
	Data    []model.Payment `json:"data"`
	Meta    repository.Meta `json:"meta"`
}

type userPaymentsResponse struct {
	Message string          `json:"message"`
	Data    []model.Payment `json:"data"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
}

type userListResponse struct {
	Message string          `json:"message"`
	Data    []model.User    `json:"data"`
	Meta    repository.Meta `json:"meta"`
}

type usersResponse struct {
	Message string       `json:"message"`
	Data    []model.User `json:"data"`
}

type uploadResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	FileURL string `json:"fileUrl"`
}
