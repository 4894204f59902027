package validation

// Request payloads accepted by the HTTP layer, with the rules and messages
// each one is checked against.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required,min=8"`
}

var RegisterMessages = Messages{
	"name.required":      "name is a required",
	"email.required":     "email is a required",
	"email.email_format": "email is invalid",
	"password.required":  "password is a required",
	"password.min":       "password must be 8 characters long",
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required"`
}

var LoginMessages = Messages{
	"email.required":     "email is a required",
	"email.email_format": "email is invalid",
	"password.required":  "password is a required",
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

var RefreshMessages = Messages{
	"refreshToken.required": "Refresh token is required",
}

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	FileURL string `json:"fileUrl" validate:"required"`
}

var CreateDocumentMessages = Messages{
	"title.required":   "title is required",
	"fileUrl.required": "fileUrl is required",
}

// CreatePaymentRequest is shared by direct payment creation and checkout.
// Amount is a pointer so that an explicit 0 passes "required".
type CreatePaymentRequest struct {
	Title  string   `json:"title" validate:"required"`
	Amount *float64 `json:"amount" validate:"required,gte=0,lte=999999.99"`
}

var CreatePaymentMessages = Messages{
	"title.required":  "Title is required",
	"amount.required": "Amount is required",
	"amount.gte":      "Amount must be a positive number",
	"amount.lte":      "Amount must not exceed 999999.99",
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,status"`
}

var StatusUpdateMessages = Messages{
	"status.required": "status is required",
	"status.status":   "Invalid status value",
}

// ListQuery holds the query parameters of the paginated list routes.
// Zero Page/Limit mean "not given".
type ListQuery struct {
	Page   int      `json:"page" validate:"omitempty,min=1,max=1000000"`
	Limit  int      `json:"limit" validate:"omitempty,min=1,max=100"`
	Status string   `json:"status" validate:"omitempty,status"`
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
}

var ListQueryMessages = Messages{
	"page.min":      "page must be a positive integer",
	"page.max":      "page must not exceed 1000000",
	"limit.min":     "limit must be between 1 and 100",
	"limit.max":     "limit must be between 1 and 100",
	"status.status": "Invalid status value",
	"amount.gte":    "amount must be a positive number",
}
