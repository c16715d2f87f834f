package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/domain"
	"onboard/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	seed, err := store.LoadSeed("")
	require.NoError(t, err)
	require.NoError(t, st.Import(context.Background(), seed))
	return st
}

func quietOptions() RouterOptions {
	return RouterOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDepartmentsNameLike(t *testing.T) {
	h := BasicInfoRouter(newTestStore(t), quietOptions())

	rec := do(t, h, http.MethodGet, "/departments?name_like=ENG", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Department
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Engineering", got[0].Name)
	assert.Equal(t, "1", rec.Header().Get(totalCountHeader))

	rec = do(t, h, http.MethodGet, "/departments?name_like=qqq", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBasicInfoPagingHeader(t *testing.T) {
	st := newTestStore(t)
	h := BasicInfoRouter(st, quietOptions())
	for i := 0; i < 12; i++ {
		rec := do(t, h, http.MethodPost, "/basicInfo", domain.BasicInfo{Name: "Temp", Email: "t@example.com", DepartmentID: 1, Role: domain.RoleOps})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/basicInfo?_page=2&_limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page []domain.BasicInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page, 4)
	assert.Equal(t, "14", rec.Header().Get(totalCountHeader))

	rec = do(t, h, http.MethodGet, "/basicInfo?_page=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBasicInfoLifecycle(t *testing.T) {
	h := BasicInfoRouter(newTestStore(t), quietOptions())

	rec := do(t, h, http.MethodPost, "/basicInfo", map[string]any{
		"name": "Dewi", "email": "dewi@example.com", "departmentId": 3, "role": "ops", "employeeId": "OPE-001",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.BasicInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, domain.RoleOps, created.Role)

	path := "/basicInfo/" + strconv.Itoa(created.ID)
	rec = do(t, h, http.MethodPatch, path, map[string]any{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched domain.BasicInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	assert.Equal(t, domain.RoleAdmin, patched.Role)
	assert.Equal(t, "Dewi", patched.Name)

	rec = do(t, h, http.MethodPut, path, domain.BasicInfo{Name: "Dewi S", Email: "d@example.com", DepartmentID: 1, Role: domain.RoleEngineer, EmployeeID: "ENG-002"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"employeeId":"ENG-002"`)

	rec = do(t, h, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestNotFoundAndBadInput(t *testing.T) {
	h := DetailsRouter(newTestStore(t), quietOptions())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/details/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/details/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/details/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/locations/999", nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/details", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailsFilterByOwner(t *testing.T) {
	h := DetailsRouter(newTestStore(t), quietOptions())

	rec := do(t, h, http.MethodPost, "/details", domain.Detail{BasicInfoID: 2, LocationID: 3, StartDate: "2024-07-01", EmploymentType: domain.EmploymentIntern})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/details?basicInfoId=2&basicInfoId=77", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, domain.EmploymentIntern, got[0].EmploymentType)

	rec = do(t, h, http.MethodGet, "/details?basicInfoId=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatencyMiddlewareDelaysResponses(t *testing.T) {
	opts := quietOptions()
	opts.Latency = 30 * time.Millisecond
	h := DetailsRouter(newTestStore(t), opts)

	start := time.Now()
	rec := do(t, h, http.MethodGet, "/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestCORSPreflight(t *testing.T) {
	h := BasicInfoRouter(newTestStore(t), quietOptions())
	rec := do(t, h, http.MethodOptions, "/basicInfo", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, totalCountHeader, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestRunStopsOnCancel(t *testing.T) {
	st := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, st, Options{
			BasicInfoAddr: "127.0.0.1:0",
			DetailsAddr:   "127.0.0.1:0",
			Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
