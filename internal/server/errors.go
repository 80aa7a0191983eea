package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/blyn/internal/analysis"
	"github.com/jonathan/blyn/internal/deploy"
	"github.com/jonathan/blyn/internal/normalize"
	"github.com/jonathan/blyn/internal/pipeline"
)

// ErrValidation represents a request validation error
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts validator output into an ErrValidation naming the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ErrValidation{Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Collaborator and hosting provider failures surface as 502.
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		analysisValErr *analysis.ValidationError
		unsupportedErr *normalize.UnsupportedInputError
		analysisErr    *analysis.AnalysisFailedError
		deployErr      *deploy.DeploymentFailedError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &analysisValErr),
		errors.As(err, &unsupportedErr), errors.Is(err, pipeline.ErrMissingDeployToken):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrMissingOwner):
		return http.StatusUnauthorized
	case errors.Is(err, pipeline.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &analysisErr), errors.As(err, &deployErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
