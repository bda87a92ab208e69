// Package service provides business logic for the application.
package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/agentengineer/curator/internal/model"
)

// Service errors.
var (
	ErrInvalidEmail         = errors.New("valid email is required")
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidContentType   = errors.New("content_type must be one of creator, offering, content")
	ErrInvalidContentID     = errors.New("content_id must not be negative")
	ErrInvalidFeedbackEmail = errors.New("email is not a valid address")
	ErrFeedbackTooLong      = errors.New("feedback_text is too long")
	ErrVerificationFailed   = errors.New("verification update failed")
	ErrCreatorNotFound      = errors.New("creator not found")
	ErrContentNotFound      = errors.New("content review not found")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("content_category", func(fl validator.FieldLevel) bool {
		return model.ContentCategory(fl.Field().String()).IsValid()
	})
	return v
}

func generateULID() string {
	return ulid.Make().String()
}
