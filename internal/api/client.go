// Package api talks to the two onboarding services: basic info (people and
// departments) and details (employment records and office locations).
package api

import (
	"context"

	"onboard/internal/domain"
)

// BasicInfoService covers the first service.
type BasicInfoService interface {
	Departments(ctx context.Context) ([]domain.Department, error)
	DepartmentsByName(ctx context.Context, name string) ([]domain.Department, error)
	BasicInfo(ctx context.Context) ([]domain.BasicInfo, error)
	BasicInfoPage(ctx context.Context, page, limit int) ([]domain.BasicInfo, int, error)
	BasicInfoByID(ctx context.Context, id int) (domain.BasicInfo, error)
	CreateBasicInfo(ctx context.Context, info domain.BasicInfo) (domain.BasicInfo, error)
	UpdateBasicInfo(ctx context.Context, id int, info domain.BasicInfo) (domain.BasicInfo, error)
	PatchBasicInfo(ctx context.Context, id int, fields map[string]any) (domain.BasicInfo, error)
	DeleteBasicInfo(ctx context.Context, id int) error
}

// DetailsService covers the second service.
type DetailsService interface {
	Locations(ctx context.Context) ([]domain.Location, error)
	LocationsByName(ctx context.Context, name string) ([]domain.Location, error)
	Details(ctx context.Context) ([]domain.Detail, error)
	DetailsFor(ctx context.Context, basicInfoIDs []int) ([]domain.Detail, error)
	DetailsByID(ctx context.Context, id int) (domain.Detail, error)
	CreateDetails(ctx context.Context, d domain.Detail) (domain.Detail, error)
	UpdateDetails(ctx context.Context, id int, d domain.Detail) (domain.Detail, error)
	PatchDetails(ctx context.Context, id int, fields map[string]any) (domain.Detail, error)
	DeleteDetails(ctx context.Context, id int) error
}

// Client is everything the terminal app needs from the backends.
type Client interface {
	BasicInfoService
	DetailsService
	Employees(ctx context.Context, page, limit int) (domain.EmployeePage, error)
}
