// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/pagination"
)

// Envelope is the canonical success body. Message is "success" unless the
// mutation committed but a follow-up step (event publishing) failed, in
// which case it is "success_with_warnings" and Warnings says what went wrong.
type Envelope struct {
	Status   int      `json:"status"`
	Message  string   `json:"message"`
	Data     any      `json:"data,omitempty"`
	Meta     any      `json:"meta,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorEnvelope is the canonical error body.
type ErrorEnvelope struct {
	Status int          `json:"status"`
	Errors ErrorPayload `json:"errors"`
}

// ErrorPayload carries the machine-readable error details. The batch fields
// are only set for bulk failures, so clients can retry just the entries that
// need it.
type ErrorPayload struct {
	Error                string               `json:"error"`
	Message              string               `json:"message,omitempty"`
	FieldErrors          []service.FieldError `json:"field_errors,omitempty"`
	SKUsFound            []string             `json:"skus_found,omitempty"`
	SKUsNotFound         []string             `json:"skus_not_found,omitempty"`
	SKUsAlreadyExist     []string             `json:"skus_already_exists,omitempty"`
	OfferIDsAlreadyExist []string             `json:"offer_id_already_exists,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	var (
		batchNotFound *repository.BatchNotFoundError
		batchConflict *repository.BatchConflictError
		missing       *service.MissingProductsError
		skuNotFound   *repository.SKUNotFoundError
		skuExists     *repository.SKUAlreadyExistsError
	)
	switch {
	case errors.As(err, &batchNotFound):
		return http.StatusNotFound, ErrorPayload{
			Error:        "not_found",
			Message:      fmt.Sprintf("%d offer(s) updated", batchNotFound.Updated),
			SKUsFound:    batchNotFound.SKUsFound,
			SKUsNotFound: batchNotFound.SKUsNotFound,
		}
	case errors.As(err, &batchConflict):
		return http.StatusConflict, ErrorPayload{
			Error:                "already_exists",
			Message:              "one or more entries collide with stored documents",
			SKUsAlreadyExist:     batchConflict.SKUsAlreadyExist,
			OfferIDsAlreadyExist: batchConflict.OfferIDsAlreadyExist,
		}
	case errors.As(err, &missing):
		return http.StatusNotFound, ErrorPayload{
			Error:        "products_not_found",
			Message:      "offers reference skus missing from the product catalog",
			SKUsNotFound: missing.SKUs,
		}
	case errors.As(err, &skuNotFound):
		return http.StatusNotFound, ErrorPayload{
			Error:        "not_found",
			SKUsNotFound: []string{skuNotFound.SKU},
		}
	case errors.As(err, &skuExists):
		return http.StatusConflict, ErrorPayload{
			Error:            "already_exists",
			SKUsAlreadyExist: []string{skuExists.SKU},
		}
	}

	switch {
	case errors.Is(err, pagination.ErrInvalidInput):
		return http.StatusBadRequest, ErrorPayload{Error: "invalid_input", Message: err.Error()}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, repository.ErrCounterNotInitialized):
		return http.StatusInternalServerError, ErrorPayload{
			Error:   "dependency_error",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Status: status, Errors: payload})
}

// WriteData writes a plain successful response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Status: status, Message: "success", Data: data})
}

// WriteList writes a paginated collection with its metadata.
func WriteList(c *gin.Context, data any, meta pagination.Metadata) {
	c.JSON(http.StatusOK, Envelope{Status: http.StatusOK, Message: "success", Data: data, Meta: meta})
}

// WriteMutation writes a committed mutation result. Publish warnings degrade
// the message but never the status: the data is durable either way.
func WriteMutation(c *gin.Context, status int, data any, warnings []string) {
	msg := "success"
	if len(warnings) > 0 {
		msg = "success_with_warnings"
	}
	c.JSON(status, Envelope{Status: status, Message: msg, Data: data, Warnings: warnings})
}
