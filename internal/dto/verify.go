package dto

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
