package api

import (
	"context"
	"strconv"

	"onboard/internal/autocomplete"
)

// DepartmentSearcher looks up departments by name for an autocomplete field.
// Option values are department IDs.
type DepartmentSearcher struct {
	Client BasicInfoService
}

// Search implements autocomplete.Searcher.
func (s DepartmentSearcher) Search(ctx context.Context, query string) ([]autocomplete.Option, error) {
	depts, err := s.Client.DepartmentsByName(ctx, query)
	if err != nil {
		return nil, err
	}
	opts := make([]autocomplete.Option, len(depts))
	for i, d := range depts {
		opts[i] = autocomplete.Option{Value: strconv.Itoa(d.ID), Label: d.Name}
	}
	return opts, nil
}

// LocationSearcher looks up offices by name for an autocomplete field.
// Option values are location IDs.
type LocationSearcher struct {
	Client DetailsService
}

// Search implements autocomplete.Searcher.
func (s LocationSearcher) Search(ctx context.Context, query string) ([]autocomplete.Option, error) {
	locs, err := s.Client.LocationsByName(ctx, query)
	if err != nil {
		return nil, err
	}
	opts := make([]autocomplete.Option, len(locs))
	for i, l := range locs {
		opts[i] = autocomplete.Option{Value: strconv.Itoa(l.ID), Label: l.Name}
	}
	return opts, nil
}
