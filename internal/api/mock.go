package api

import (
	"context"
	"errors"
	"sync"

	"onboard/internal/domain"
)

// ErrMockNotImplemented is returned when a MockClient method lacks an override.
var ErrMockNotImplemented = errors.New("api.MockClient: method not implemented")

// MockClient is a test double for Client. Employees joins through the
// configured stubs unless EmployeesFn is set.
type MockClient struct {
	DepartmentsFn       func(context.Context) ([]domain.Department, error)
	DepartmentsByNameFn func(context.Context, string) ([]domain.Department, error)
	BasicInfoFn         func(context.Context) ([]domain.BasicInfo, error)
	BasicInfoPageFn     func(context.Context, int, int) ([]domain.BasicInfo, int, error)
	BasicInfoByIDFn     func(context.Context, int) (domain.BasicInfo, error)
	CreateBasicInfoFn   func(context.Context, domain.BasicInfo) (domain.BasicInfo, error)
	UpdateBasicInfoFn   func(context.Context, int, domain.BasicInfo) (domain.BasicInfo, error)
	PatchBasicInfoFn    func(context.Context, int, map[string]any) (domain.BasicInfo, error)
	DeleteBasicInfoFn   func(context.Context, int) error
	LocationsFn         func(context.Context) ([]domain.Location, error)
	LocationsByNameFn   func(context.Context, string) ([]domain.Location, error)
	DetailsFn           func(context.Context) ([]domain.Detail, error)
	DetailsForFn        func(context.Context, []int) ([]domain.Detail, error)
	DetailsByIDFn       func(context.Context, int) (domain.Detail, error)
	CreateDetailsFn     func(context.Context, domain.Detail) (domain.Detail, error)
	UpdateDetailsFn     func(context.Context, int, domain.Detail) (domain.Detail, error)
	PatchDetailsFn      func(context.Context, int, map[string]any) (domain.Detail, error)
	DeleteDetailsFn     func(context.Context, int) error
	EmployeesFn         func(context.Context, int, int) (domain.EmployeePage, error)

	mu                     sync.Mutex
	DepartmentsCallCount   int
	DepartmentsByNameArgs  []string
	BasicInfoCallCount     int
	BasicInfoPageCallArgs  [][2]int // [page, limit]
	CreateBasicInfoArgs    []domain.BasicInfo
	UpdateBasicInfoCallIDs []int
	PatchBasicInfoCallIDs  []int
	DeleteBasicInfoCallIDs []int
	LocationsCallCount     int
	LocationsByNameArgs    []string
	DetailsCallCount       int
	DetailsForCallArgs     [][]int
	CreateDetailsArgs      []domain.Detail
	UpdateDetailsCallIDs   []int
	PatchDetailsCallIDs    []int
	DeleteDetailsCallIDs   []int
	EmployeesCallArgs      [][2]int // [page, limit]
}

// NewMockClient returns a MockClient with zeroed handlers.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Departments invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Departments(ctx context.Context) ([]domain.Department, error) {
	m.mu.Lock()
	m.DepartmentsCallCount++
	m.mu.Unlock()
	if m.DepartmentsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.DepartmentsFn(ctx)
}

// DepartmentsByName invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) DepartmentsByName(ctx context.Context, name string) ([]domain.Department, error) {
	m.mu.Lock()
	m.DepartmentsByNameArgs = append(m.DepartmentsByNameArgs, name)
	m.mu.Unlock()
	if m.DepartmentsByNameFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.DepartmentsByNameFn(ctx, name)
}

// BasicInfo invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) BasicInfo(ctx context.Context) ([]domain.BasicInfo, error) {
	m.mu.Lock()
	m.BasicInfoCallCount++
	m.mu.Unlock()
	if m.BasicInfoFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.BasicInfoFn(ctx)
}

// BasicInfoPage invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) BasicInfoPage(ctx context.Context, page, limit int) ([]domain.BasicInfo, int, error) {
	m.mu.Lock()
	m.BasicInfoPageCallArgs = append(m.BasicInfoPageCallArgs, [2]int{page, limit})
	m.mu.Unlock()
	if m.BasicInfoPageFn == nil {
		return nil, 0, ErrMockNotImplemented
	}
	return m.BasicInfoPageFn(ctx, page, limit)
}

// BasicInfoByID invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) BasicInfoByID(ctx context.Context, id int) (domain.BasicInfo, error) {
	if m.BasicInfoByIDFn == nil {
		return domain.BasicInfo{}, ErrMockNotImplemented
	}
	return m.BasicInfoByIDFn(ctx, id)
}

// CreateBasicInfo invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) CreateBasicInfo(ctx context.Context, info domain.BasicInfo) (domain.BasicInfo, error) {
	m.mu.Lock()
	m.CreateBasicInfoArgs = append(m.CreateBasicInfoArgs, info)
	m.mu.Unlock()
	if m.CreateBasicInfoFn == nil {
		return domain.BasicInfo{}, ErrMockNotImplemented
	}
	return m.CreateBasicInfoFn(ctx, info)
}

// UpdateBasicInfo invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) UpdateBasicInfo(ctx context.Context, id int, info domain.BasicInfo) (domain.BasicInfo, error) {
	m.mu.Lock()
	m.UpdateBasicInfoCallIDs = append(m.UpdateBasicInfoCallIDs, id)
	m.mu.Unlock()
	if m.UpdateBasicInfoFn == nil {
		return domain.BasicInfo{}, ErrMockNotImplemented
	}
	return m.UpdateBasicInfoFn(ctx, id, info)
}

// PatchBasicInfo invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) PatchBasicInfo(ctx context.Context, id int, fields map[string]any) (domain.BasicInfo, error) {
	m.mu.Lock()
	m.PatchBasicInfoCallIDs = append(m.PatchBasicInfoCallIDs, id)
	m.mu.Unlock()
	if m.PatchBasicInfoFn == nil {
		return domain.BasicInfo{}, ErrMockNotImplemented
	}
	return m.PatchBasicInfoFn(ctx, id, fields)
}

// DeleteBasicInfo invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) DeleteBasicInfo(ctx context.Context, id int) error {
	m.mu.Lock()
	m.DeleteBasicInfoCallIDs = append(m.DeleteBasicInfoCallIDs, id)
	m.mu.Unlock()
	if m.DeleteBasicInfoFn == nil {
		return ErrMockNotImplemented
	}
	return m.DeleteBasicInfoFn(ctx, id)
}

// Locations invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Locations(ctx context.Context) ([]domain.Location, error) {
	m.mu.Lock()
	m.LocationsCallCount++
	m.mu.Unlock()
	if m.LocationsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.LocationsFn(ctx)
}

// LocationsByName invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) LocationsByName(ctx context.Context, name string) ([]domain.Location, error) {
	m.mu.Lock()
	m.LocationsByNameArgs = append(m.LocationsByNameArgs, name)
	m.mu.Unlock()
	if m.LocationsByNameFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.LocationsByNameFn(ctx, name)
}

// Details invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) Details(ctx context.Context) ([]domain.Detail, error) {
	m.mu.Lock()
	m.DetailsCallCount++
	m.mu.Unlock()
	if m.DetailsFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.DetailsFn(ctx)
}

// DetailsFor invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) DetailsFor(ctx context.Context, basicInfoIDs []int) ([]domain.Detail, error) {
	m.mu.Lock()
	m.DetailsForCallArgs = append(m.DetailsForCallArgs, append([]int(nil), basicInfoIDs...))
	m.mu.Unlock()
	if m.DetailsForFn == nil {
		return nil, ErrMockNotImplemented
	}
	return m.DetailsForFn(ctx, basicInfoIDs)
}

// DetailsByID invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) DetailsByID(ctx context.Context, id int) (domain.Detail, error) {
	if m.DetailsByIDFn == nil {
		return domain.Detail{}, ErrMockNotImplemented
	}
	return m.DetailsByIDFn(ctx, id)
}

// CreateDetails invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) CreateDetails(ctx context.Context, d domain.Detail) (domain.Detail, error) {
	m.mu.Lock()
	m.CreateDetailsArgs = append(m.CreateDetailsArgs, d)
	m.mu.Unlock()
	if m.CreateDetailsFn == nil {
		return domain.Detail{}, ErrMockNotImplemented
	}
	return m.CreateDetailsFn(ctx, d)
}

// UpdateDetails invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) UpdateDetails(ctx context.Context, id int, d domain.Detail) (domain.Detail, error) {
	m.mu.Lock()
	m.UpdateDetailsCallIDs = append(m.UpdateDetailsCallIDs, id)
	m.mu.Unlock()
	if m.UpdateDetailsFn == nil {
		return domain.Detail{}, ErrMockNotImplemented
	}
	return m.UpdateDetailsFn(ctx, id, d)
}

// PatchDetails invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) PatchDetails(ctx context.Context, id int, fields map[string]any) (domain.Detail, error) {
	m.mu.Lock()
	m.PatchDetailsCallIDs = append(m.PatchDetailsCallIDs, id)
	m.mu.Unlock()
	if m.PatchDetailsFn == nil {
		return domain.Detail{}, ErrMockNotImplemented
	}
	return m.PatchDetailsFn(ctx, id, fields)
}

// DeleteDetails invokes the configured stub or returns ErrMockNotImplemented.
func (m *MockClient) DeleteDetails(ctx context.Context, id int) error {
	m.mu.Lock()
	m.DeleteDetailsCallIDs = append(m.DeleteDetailsCallIDs, id)
	m.mu.Unlock()
	if m.DeleteDetailsFn == nil {
		return ErrMockNotImplemented
	}
	return m.DeleteDetailsFn(ctx, id)
}

// Employees invokes EmployeesFn, or joins through the other stubs.
func (m *MockClient) Employees(ctx context.Context, page, limit int) (domain.EmployeePage, error) {
	m.mu.Lock()
	m.EmployeesCallArgs = append(m.EmployeesCallArgs, [2]int{page, limit})
	m.mu.Unlock()
	if m.EmployeesFn != nil {
		return m.EmployeesFn(ctx, page, limit)
	}
	return employeesPage(ctx, m, page, limit)
}

var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
