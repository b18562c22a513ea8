package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guscassiano/eplay/internal/service"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
)

func setupCartRouter(repo *mockCartRepository) *chi.Mux {
	svc := service.NewCartService(repo, testEventProducer(), testLogger())
	handler := NewCartHandler(svc, testLogger())

	r := chi.NewRouter()
	withSession(r)
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Delete("/items/{productId}", handler.RemoveItem)

		r.Post("/open", handler.OpenCart)
		r.Post("/close", handler.CloseCart)
	})
	return r
}

func TestGetCartEndpoint(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testSessionID).Return(sampleCart(), nil)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	data := resp.Data.(map[string]any)
	assert.Equal(t, testSessionID, data["session_id"])
	assert.Len(t, data["items"], 1)
}

func TestGetCartEndpoint_MintsSessionWhenCookieMissing(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, apperrors.NotFound("cart", "any"))
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAddItemEndpoint(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testSessionID).Return(nil, apperrors.NotFound("cart", testSessionID))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)
	router := setupCartRouter(repo)

	body := `{"product_id": 14, "name": "Marvel's Spider-Man", "thumbnail": "https://img.example.com/sm.jpg", "original": 24990, "current": 19990}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestAddItemEndpoint_ValidationError(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	body := `{"product_id": 0, "name": "", "original": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "ProductID")
}

func TestAddItemEndpoint_MalformedBody(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemEndpoint_WrongContentType(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRemoveItemEndpoint(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testSessionID).Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/14", nil)
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestRemoveItemEndpoint_NonNumericID(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/abc", nil)
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearCartEndpoint(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testSessionID).Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Empty(t, data["items"])
}

func TestOpenCloseCartEndpoints(t *testing.T) {
	repo := new(mockCartRepository)
	repo.On("Get", mock.Anything, testSessionID).Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)
	router := setupCartRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/open", nil)
	addSessionCookie(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["is_open"])
}
