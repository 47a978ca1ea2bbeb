package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "AstroChart/internal/domain/models"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/usecase"
	xhttp "AstroChart/pkg/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCharts struct {
	got       usecase.ChartInput
	err       error
	recent    []*models.ChartRecord
	recentErr error
	limit     int
	since     time.Time
}

func (f *fakeCharts) Compute(_ context.Context, in usecase.ChartInput) (*models.Chart, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	deg := 15.0
	return &models.Chart{
		ID:        "c1",
		Ascendant: 100.12,
		Planets:   map[string]models.Placement{"Sun": {Degree: &deg, Sign: "Aries", House: models.KnownHouse(1)}},
	}, nil
}

func (f *fakeCharts) Recent(_ context.Context, limit int, since time.Time) ([]*models.ChartRecord, error) {
	f.limit = limit
	f.since = since
	return f.recent, f.recentErr
}

func newTestEcho(charts ChartService) *echo.Echo {
	e := echo.New()
	NewChartEchoHandler(nil, charts).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestComputeReturnsBareChart(t *testing.T) {
	charts := &fakeCharts{}
	e := newTestEcho(charts)

	rec := do(e, http.MethodPost, "/api/astro",
		`{"birth_date":"1990-06-15","birth_time":"14:30","latitude":"25.03","longitude":121.56}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, usecase.ChartInput{BirthDate: "1990-06-15", BirthTime: "14:30", Latitude: 25.03, Longitude: 121.56}, charts.got)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100.12, body["ascendant"])
	assert.NotContains(t, body, "status")
	sun := body["planets"].(map[string]interface{})["Sun"].(map[string]interface{})
	assert.Equal(t, "Aries", sun["sign"])
	assert.Equal(t, 1.0, sun["house"])
}

func TestComputeValidation(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
		code  string
	}{
		"missing date":  {`{"birth_time":"14:30","latitude":1,"longitude":1}`, "birth_date", "ERR_REQUIRED"},
		"bad time":      {`{"birth_date":"1990-06-15","birth_time":"2pm","latitude":1,"longitude":1}`, "birth_time", "ERR_DATETIME"},
		"latitude high": {`{"birth_date":"1990-06-15","birth_time":"14:30","latitude":91,"longitude":1}`, "latitude", "ERR_LTE"},
		"no longitude":  {`{"birth_date":"1990-06-15","birth_time":"14:30","latitude":1}`, "longitude", "ERR_REQUIRED"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			charts := &fakeCharts{}
			rec := do(newTestEcho(charts), http.MethodPost, "/api/astro", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Status int                     `json:"status"`
				Data   []xhttp.ValidationError `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			require.NotEmpty(t, resp.Data)
			assert.Equal(t, tc.field, resp.Data[0].Field)
			assert.Equal(t, tc.code, resp.Data[0].Code)
			assert.Empty(t, charts.got.BirthDate)
		})
	}
}

func TestComputeMalformedNumber(t *testing.T) {
	rec := do(newTestEcho(&fakeCharts{}), http.MethodPost, "/api/astro",
		`{"birth_date":"1990-06-15","birth_time":"14:30","latitude":"north","longitude":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ERR_BIND"`)
}

func TestComputeErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{usecase.ErrInvalidInput, http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{domsvc.ErrEphemerisUnavailable, http.StatusServiceUnavailable, "ERR_UNAVAILABLE"},
		{errors.New("vsop87: bad series"), http.StatusInternalServerError, "ERR_EPHEMERIS"},
	}
	for _, tc := range cases {
		rec := do(newTestEcho(&fakeCharts{err: tc.err}), http.MethodPost, "/api/astro",
			`{"birth_date":"1990-06-15","birth_time":"14:30","latitude":1,"longitude":1}`)
		require.Equal(t, tc.status, rec.Code)
		var resp struct {
			Data []xhttp.AppError `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, tc.code, resp.Data[0].Code)
	}
}

func TestRecent(t *testing.T) {
	charts := &fakeCharts{recent: []*models.ChartRecord{{ID: "a"}, {ID: "b"}}}
	e := newTestEcho(charts)

	rec := do(e, http.MethodGet, "/api/charts/recent", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, charts.limit)

	var resp struct {
		Data struct {
			Rows  []models.ChartRecord `json:"rows"`
			Total int64                `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Total)
	assert.Equal(t, "b", resp.Data.Rows[1].ID)

	rec = do(e, http.MethodGet, "/api/charts/recent?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, charts.limit)

	assert.True(t, charts.since.IsZero())

	rec = do(e, http.MethodGet, "/api/charts/recent?since=2024-03-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, charts.since.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	rec = do(e, http.MethodGet, "/api/charts/recent?since=1709251200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1709251200), charts.since.Unix())

	rec = do(e, http.MethodGet, "/api/charts/recent?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/charts/recent?limit=501", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentArchiveDisabled(t *testing.T) {
	rec := do(newTestEcho(&fakeCharts{recentErr: usecase.ErrArchiveDisabled}), http.MethodGet, "/api/charts/recent", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
