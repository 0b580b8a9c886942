package response_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/pagination"
	"github.com/maxviazov/catalog-service/pkg/response"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil", nil, http.StatusOK, "ok"},
		{"not found sentinel", repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{"already exists sentinel", repository.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{"conflict sentinel", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"pagination", pagination.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"counter missing", repository.ErrCounterNotInitialized, http.StatusInternalServerError, "dependency_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := response.MapError(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", status, tc.wantStatus)
			}
			if payload.Error != tc.wantCode {
				t.Fatalf("code: got %q, want %q", payload.Error, tc.wantCode)
			}
		})
	}
}

func TestMapError_BatchNotFound(t *testing.T) {
	err := &repository.BatchNotFoundError{
		SKUsFound:    []string{"S1"},
		SKUsNotFound: []string{"S2", "S3"},
		Updated:      1,
	}
	status, payload := response.MapError(err)
	if status != http.StatusNotFound {
		t.Fatalf("status: %d", status)
	}
	if payload.Error != "not_found" {
		t.Fatalf("code: %q", payload.Error)
	}
	if len(payload.SKUsFound) != 1 || len(payload.SKUsNotFound) != 2 {
		t.Fatalf("partitions lost: %+v", payload)
	}
	if payload.Message != "1 offer(s) updated" {
		t.Fatalf("message: %q", payload.Message)
	}
}

func TestMapError_BatchConflict(t *testing.T) {
	err := &repository.BatchConflictError{
		SKUsAlreadyExist:     []string{"S1"},
		OfferIDsAlreadyExist: []string{"42"},
	}
	status, payload := response.MapError(err)
	if status != http.StatusConflict {
		t.Fatalf("status: %d", status)
	}
	if len(payload.SKUsAlreadyExist) != 1 || payload.SKUsAlreadyExist[0] != "S1" {
		t.Fatalf("skus: %v", payload.SKUsAlreadyExist)
	}
	if len(payload.OfferIDsAlreadyExist) != 1 || payload.OfferIDsAlreadyExist[0] != "42" {
		t.Fatalf("offer ids: %v", payload.OfferIDsAlreadyExist)
	}
}

func TestMapError_MissingProducts(t *testing.T) {
	err := &service.MissingProductsError{SKUs: []string{"S7", "S8"}}
	status, payload := response.MapError(err)
	if status != http.StatusNotFound {
		t.Fatalf("status: %d", status)
	}
	if payload.Error != "products_not_found" {
		t.Fatalf("code: %q", payload.Error)
	}
	if len(payload.SKUsNotFound) != 2 {
		t.Fatalf("skus: %v", payload.SKUsNotFound)
	}
}

func TestMapError_SingleSKUErrors(t *testing.T) {
	status, payload := response.MapError(&repository.SKUNotFoundError{SKU: "S1"})
	if status != http.StatusNotFound || len(payload.SKUsNotFound) != 1 {
		t.Fatalf("got %d %+v", status, payload)
	}
	status, payload = response.MapError(&repository.SKUAlreadyExistsError{SKU: "S1"})
	if status != http.StatusConflict || len(payload.SKUsAlreadyExist) != 1 {
		t.Fatalf("got %d %+v", status, payload)
	}
}
