// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/rollcall/rollcall/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse represents a user in API responses. The _id and camelCase
// timestamp names are what the browser client reads.
type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserResponse is the envelope returned by POST /users.
type CreateUserResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *UserResponse `json:"data"`
}

// UserListResponse is the envelope returned by GET /users.
type UserListResponse struct {
	Success bool           `json:"success"`
	Data    []UserResponse `json:"data"`
}

// ErrorResponse is the envelope returned by every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageUserCreated is the message sent with a successful create.
const MessageUserCreated = "User created successfully"

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToCreateUserResponse wraps a created user in the success envelope.
func ToCreateUserResponse(u *model.User) *CreateUserResponse {
	return &CreateUserResponse{
		Success: true,
		Message: MessageUserCreated,
		Data:    ToUserResponse(u),
	}
}

// ToUserListResponse converts users to the list envelope. Data is never
// null, so an empty store serializes as [].
func ToUserListResponse(users []*model.User) *UserListResponse {
	data := make([]UserResponse, len(users))
	for i, u := range users {
		data[i] = *ToUserResponse(u)
	}
	return &UserListResponse{Success: true, Data: data}
}

// NewErrorResponse builds the failure envelope.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: message}
}
