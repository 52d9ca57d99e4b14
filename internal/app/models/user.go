package models

// User defines the user model based on the 'users' table
type User struct {
	ID             string `json:"id" cql:"id" example:"3f8e2a5c-1b7d-4c2e-9a6f-0d4b8e7c1a92"` // Generated UUIDv4
	Username       string `json:"username" cql:"username" example:"jdoe"`                    // Login name, also the token subject
	Email          string `json:"email" cql:"email" example:"jdoe@example.com"`              // Unique by convention only
	HashedPassword string `json:"-" cql:"hashed_password"`                                   // bcrypt hash, never serialised
	IsActive       bool   `json:"is_active" cql:"is_active" example:"true"`                  // Inactive users cannot log in
}
