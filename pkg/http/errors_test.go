package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorResponse(t *testing.T) {
	cause := errors.New("vsop87 file truncated")
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"ephemeris", EphemerisError(cause), http.StatusInternalServerError, "ERR_EPHEMERIS"},
		{"unavailable", UnavailableError("archive off"), http.StatusServiceUnavailable, "ERR_UNAVAILABLE"},
		{"bad request", BadRequestError("bad date"), http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"plain error", cause, http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, AppErrorResponse(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "truncated")

			if tc.code == "" {
				return
			}
			var resp struct {
				Status int         `json:"status"`
				Data   []*AppError `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Data, 1)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, tc.code, resp.Data[0].Code)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := InternalError("failed").WithError(cause).WithParam("attempt", 2)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed: boom", err.Error())
	assert.Equal(t, 2, err.Params["attempt"])
}
