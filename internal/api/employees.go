package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"onboard/internal/domain"
)

// fanOut runs fns concurrently and returns the first error. The shared
// context is cancelled as soon as one call fails.
func fanOut(ctx context.Context, fns ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// Employees builds one directory page. The page of basic info, the
// departments and the locations are fetched together; the details of the
// page's employees follow in a second request.
func (c *HTTPClient) Employees(ctx context.Context, page, limit int) (domain.EmployeePage, error) {
	return employeesPage(ctx, c, page, limit)
}

// employeesPage is shared with MockClient so both join the same way.
func employeesPage(ctx context.Context, c Client, page, limit int) (domain.EmployeePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	var (
		infos       []domain.BasicInfo
		total       int
		departments []domain.Department
		locations   []domain.Location
	)
	err := fanOut(ctx,
		func(ctx context.Context) (err error) {
			infos, total, err = c.BasicInfoPage(ctx, page, limit)
			return err
		},
		func(ctx context.Context) (err error) {
			departments, err = c.Departments(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			locations, err = c.Locations(ctx)
			return err
		},
	)
	if err != nil {
		return domain.EmployeePage{}, err
	}

	ids := make([]int, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	details, err := c.DetailsFor(ctx, ids)
	if err != nil {
		return domain.EmployeePage{}, err
	}

	return domain.EmployeePage{
		Items:      domain.JoinEmployees(infos, departments, details, locations),
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}
