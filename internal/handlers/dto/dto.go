package dto

import (
	"time"

	"taskmanager/internal/models"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// CreateTaskRequest accepts tags either as a comma-separated string or
// as an array; the service normalizes both forms.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        any        `json:"tags"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
}

type ListMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type TaskListResponse struct {
	Tasks []*models.Task `json:"tasks"`
	Meta  ListMeta       `json:"meta"`
}

type BulkCreateResponse struct {
	Created []*models.Task `json:"created"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type FilesResponse struct {
	Files []*models.File `json:"files"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
