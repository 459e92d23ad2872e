package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "condogate/pkg/domain-errors"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (r *nameRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

func (r *nameRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func decodeBody(body string) (*nameRequest, *httptest.ResponseRecorder, bool) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	dto, ok := Decode[*nameRequest](rec, req, nil)
	return dto, rec, ok
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope["error"]
}

func TestDecodeValidBody(t *testing.T) {
	dto, _, ok := decodeBody(`{"name": "  Ana  "}`)
	require.True(t, ok)
	assert.Equal(t, "Ana", dto.Name)
}

func TestDecodeMalformedBody(t *testing.T) {
	_, rec, ok := decodeBody(`{"name":`)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestDecodeNullBody(t *testing.T) {
	// Literal null is valid JSON but leaves the DTO pointer nil.
	dto, rec, ok := decodeBody(`null`)
	require.False(t, ok)
	assert.Nil(t, dto)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", errorCode(t, rec))
}

func TestDecodeValidationFailure(t *testing.T) {
	_, rec, ok := decodeBody(`{"name": "   "}`)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.Wrap(assert.AnError, dErrors.CodeInternal, "failed to load resident"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", errorCode(t, rec))
	assert.NotContains(t, rec.Body.String(), "failed to load resident")
}
