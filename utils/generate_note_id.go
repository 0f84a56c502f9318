package utils

import (
	"github.com/google/uuid"
)

func GenerateNoteID() string {
	return uuid.New().String()
}
