package handler

import (
	"context"
	"errors"
	"log"

	"stockroom-api/internal/ai"
	"stockroom-api/internal/auth"
	"stockroom-api/internal/inventory"
	"stockroom-api/internal/service"
	"stockroom-api/pkg/apierror"
)

// toAPIError maps domain errors onto API errors.
func toAPIError(err error) *apierror.Error {
	var apiErr *apierror.Error
	var verr *inventory.ValidationError
	var ext *ai.ExternalError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, service.ErrPermissionDenied):
		return apierror.Forbidden("")
	case errors.Is(err, inventory.ErrNotFound):
		return apierror.NotFound("Inventory item not found")
	case errors.Is(err, auth.ErrUnknownUser):
		return apierror.NotFound("User not found")
	case errors.As(err, &verr):
		details := make([]apierror.FieldError, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = apierror.FieldError{Field: f.Field, Message: f.Message}
		}
		return apierror.ValidationError("", details...)
	case errors.Is(err, ai.ErrMalformedRequest):
		log.Printf("[Handler] Rejected request body: %v", err)
		return apierror.BadRequest(ai.ErrMalformedRequest.Error())
	case errors.Is(err, service.ErrNotForecastable):
		return apierror.Conflict(err.Error())
	case errors.Is(err, service.ErrUnknownField), ai.IsClientError(err):
		return apierror.BadRequest(err.Error())
	case errors.As(err, &ext):
		if ext.Kind == ai.FailureUnauthorized {
			return apierror.Unauthorized(ext.Error())
		}
		return apierror.InternalError(ext.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return apierror.InternalError("An error occurred on the server.")
	}

	log.Printf("[Handler] Unmapped error: %v", err)
	return apierror.InternalError("")
}
