package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/catalog-service/internal/handler"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/pagination"
)

// stubPingerNoop satisfies handler.Pinger (health endpoints not focus here).
type stubPingerNoop struct{}

func (s stubPingerNoop) Ping(ctx context.Context) error { return nil }

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

// stubProductService lets us control each method outcome.
type stubProductService struct {
	items      []model.Product
	meta       pagination.Metadata
	warnings   []string
	err        error
	lastParams service.ListParams
}

func (s *stubProductService) Create(ctx context.Context, products []model.Product) ([]model.Product, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubProductService) List(ctx context.Context, f model.ProductFilters, p service.ListParams) ([]model.Product, pagination.Metadata, error) {
	s.lastParams = p
	return s.items, s.meta, s.err
}
func (s *stubProductService) GetBySKU(ctx context.Context, sku string) (model.Product, error) {
	if len(s.items) == 0 {
		return model.Product{}, s.err
	}
	return s.items[0], s.err
}
func (s *stubProductService) UpdateFull(ctx context.Context, products []model.Product) ([]model.Product, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubProductService) UpdatePartial(ctx context.Context, patches []model.ProductPatch) ([]model.Product, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubProductService) Delete(ctx context.Context, skus []string) ([]string, []string, error) {
	return skus, s.warnings, s.err
}

type stubOfferService struct {
	items    []model.Offer
	meta     pagination.Metadata
	deleted  int64
	warnings []string
	err      error
}

func (s *stubOfferService) Create(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubOfferService) List(ctx context.Context, f model.OfferFilters, p service.ListParams) ([]model.Offer, pagination.Metadata, error) {
	return s.items, s.meta, s.err
}
func (s *stubOfferService) GetBySKU(ctx context.Context, sku string) (model.Offer, error) {
	if len(s.items) == 0 {
		return model.Offer{}, s.err
	}
	return s.items[0], s.err
}
func (s *stubOfferService) UpdateFull(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubOfferService) UpdatePartial(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	return s.items, s.warnings, s.err
}
func (s *stubOfferService) Delete(ctx context.Context, skus []string) (int64, []string, error) {
	return s.deleted, s.warnings, s.err
}

func newRouter(products service.ProductService, offers service.OfferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.RequestID())
	handler.Register(r, stubPingerNoop{}, stubPingerNoop{}, products, offers)
	return r
}

type envelope struct {
	Status   int             `json:"status"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Meta     json.RawMessage `json:"meta"`
	Warnings []string        `json:"warnings"`
}

type errorEnvelope struct {
	Status int `json:"status"`
	Errors struct {
		Error        string               `json:"error"`
		FieldErrors  []service.FieldError `json:"field_errors"`
		SKUsNotFound []string             `json:"skus_not_found"`
	} `json:"errors"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductHandler_Create_Success(t *testing.T) {
	published := true
	stub := &stubProductService{items: []model.Product{{SKU: "S1", Title: "Keyboard", IsPublished: &published}}}
	r := newRouter(stub, &stubOfferService{})

	w := do(t, r, http.MethodPost, "/api/v1/products", []map[string]any{{"sku": "S1"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "success" || env.Status != http.StatusCreated {
		t.Fatalf("envelope: %+v", env)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
}

func TestProductHandler_Create_WarningsChangeMessage(t *testing.T) {
	stub := &stubProductService{
		items:    []model.Product{{SKU: "S1"}},
		warnings: []string{"events could not be published: broker down"},
	}
	r := newRouter(stub, &stubOfferService{})

	w := do(t, r, http.MethodPost, "/api/v1/products", []map[string]any{{"sku": "S1"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("warnings must not change the status, got %d", w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "success_with_warnings" || len(env.Warnings) != 1 {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestProductHandler_Create_MalformedBody(t *testing.T) {
	r := newRouter(&stubProductService{}, &stubOfferService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(`{"sku":"S1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	// An object where an array is expected is a binding failure.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestProductHandler_Create_ValidationErrorsSurface(t *testing.T) {
	stub := &stubProductService{err: &fakeInvalid{fe: []service.FieldError{{Field: "[0].sku", Message: "must not be empty"}}}}
	r := newRouter(stub, &stubOfferService{})

	w := do(t, r, http.MethodPost, "/api/v1/products", []map[string]any{{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Errors.Error != "invalid_input" || len(env.Errors.FieldErrors) != 1 {
		t.Fatalf("errors: %+v", env.Errors)
	}
}

func TestProductHandler_List_PassesPageParams(t *testing.T) {
	stub := &stubProductService{meta: pagination.Metadata{Page: 2, PageSize: 5}}
	r := newRouter(stub, &stubOfferService{})

	w := do(t, r, http.MethodGet, "/api/v1/products?page=2&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if stub.lastParams.Page != 2 || stub.lastParams.PageSize != 5 {
		t.Fatalf("params: %+v", stub.lastParams)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Meta) == 0 {
		t.Fatalf("meta missing from list envelope")
	}
}

func TestProductHandler_List_RejectsNonNumericPage(t *testing.T) {
	r := newRouter(&stubProductService{}, &stubOfferService{})

	w := do(t, r, http.MethodGet, "/api/v1/products?page=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	stub := &stubProductService{err: &repository.SKUNotFoundError{SKU: "S9"}}
	r := newRouter(stub, &stubOfferService{})

	w := do(t, r, http.MethodGet, "/api/v1/products/S9", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Errors.Error != "not_found" || len(env.Errors.SKUsNotFound) != 1 {
		t.Fatalf("errors: %+v", env.Errors)
	}
}

func TestOfferHandler_Create_MissingProductsMapTo404(t *testing.T) {
	stub := &stubOfferService{err: &service.MissingProductsError{SKUs: []string{"S7"}}}
	r := newRouter(&stubProductService{}, stub)

	w := do(t, r, http.MethodPost, "/api/v1/offers", []map[string]any{{"sku": "S7"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Errors.Error != "products_not_found" || len(env.Errors.SKUsNotFound) != 1 {
		t.Fatalf("errors: %+v", env.Errors)
	}
}

func TestOfferHandler_Create_ConflictMapsTo409(t *testing.T) {
	stub := &stubOfferService{err: &repository.BatchConflictError{SKUsAlreadyExist: []string{"S1"}}}
	r := newRouter(&stubProductService{}, stub)

	w := do(t, r, http.MethodPost, "/api/v1/offers", []map[string]any{{"sku": "S1"}})
	if w.Code != http.StatusConflict {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestOfferHandler_Delete_ReturnsCount(t *testing.T) {
	stub := &stubOfferService{deleted: 3}
	r := newRouter(&stubProductService{}, stub)

	w := do(t, r, http.MethodDelete, "/api/v1/offers", []map[string]any{{"sku": "S1"}, {"sku": "S2"}, {"sku": "S3"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var data struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.DeletedCount != 3 {
		t.Fatalf("deleted_count: %d", data.DeletedCount)
	}
}

func TestOfferHandler_InternalErrorHidesDetails(t *testing.T) {
	stub := &stubOfferService{err: errors.New("mongo: socket closed")}
	r := newRouter(&stubProductService{}, stub)

	w := do(t, r, http.MethodGet, "/api/v1/offers", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("socket closed")) {
		t.Fatalf("internal detail leaked: %s", w.Body.String())
	}
}
