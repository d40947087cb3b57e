package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftauction/domain"
	"github.com/x-xyz/nftauction/service/query"
)

func TestMakeJsonResp(t *testing.T) {
	errAdmin := domain.Reject("Only admin can do this", domain.ErrForbidden)
	errEnded := domain.Reject("Auction has ended")

	tests := []struct {
		name       string
		status     int
		data       interface{}
		wantStatus int
		wantData   interface{}
		wantState  JsonResponseStatus
	}{
		{"ok", http.StatusOK, "hello", http.StatusOK, "hello", JsonResponseStatusSuccess},
		{"created", http.StatusCreated, 3.0, http.StatusCreated, 3.0, JsonResponseStatusSuccess},
		{"forbidden", http.StatusInternalServerError, errAdmin, http.StatusForbidden, "Only admin can do this", JsonResponseStatusFail},
		{"not found", http.StatusInternalServerError, xerrors.Errorf("wrap: %w", domain.ErrNotFound), http.StatusNotFound, "wrap: Your requested Item is not found", JsonResponseStatusFail},
		{"mongo not found", http.StatusInternalServerError, query.ErrNotFound, http.StatusNotFound, "document not found", JsonResponseStatusFail},
		{"rejection", http.StatusInternalServerError, errEnded, http.StatusBadRequest, "Auction has ended", JsonResponseStatusFail},
		{"bad param", http.StatusInternalServerError, domain.ErrBadParamInput, http.StatusBadRequest, "Given Param is not valid", JsonResponseStatusFail},
		{"client status kept", http.StatusUnprocessableEntity, errors.New("bind"), http.StatusUnprocessableEntity, "bind", JsonResponseStatusFail},
		{"internal hidden", http.StatusInternalServerError, errors.New("connection refused"), http.StatusInternalServerError, "Internal Server Error", JsonResponseStatusFail},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, MakeJsonResp(c, tt.status, tt.data))
			assert.Equal(t, tt.wantStatus, rec.Code)

			res := JsonResponse{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, tt.wantData, res.Data)
			assert.Equal(t, tt.wantState, res.Status)
		})
	}
}
