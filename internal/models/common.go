package models

// ErrorBody is the error payload returned by the backend
type ErrorBody struct {
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// UserRef is the embedded user summary on doctor and patient records
type UserRef struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

// IDRef references an entity by id in create requests
type IDRef struct {
	ID int `json:"id" yaml:"id"`
}
