package utils

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("notetag", ValidateNoteTagRule)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notetag", ValidateNoteTagRule)
	}
}

func ValidateNoteTagRule(fl validator.FieldLevel) bool {
	return ValidateNoteTag(fl.Field().String())
}

// ValidateNoteTag accepts short, non-blank tag strings.
func ValidateNoteTag(tag string) bool {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return false
	}
	return len(tag) <= 50
}
