package types

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

// QueryParams is the body of POST /query. Question is checked by the
// answering engine (empty and whitespace-only both fail there), so it
// carries no validate tag.
type QueryParams struct {
	SessionID string `json:"session_id" validate:"required"`
	Question  string `json:"question"`
	Mode      string `json:"mode" validate:"omitempty,oneof=document_only hybrid open"`
}

type QueryResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

type UploadResponse struct {
	Message string `json:"message"`
	Chunks  int    `json:"chunks"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *QueryParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}
