package models

import "github.com/google/uuid"

// Credential is a publisher login. PasswordHash is a PHC string.
type Credential struct {
	UserID       uuid.UUID
	Username     string
	PasswordHash string
}
