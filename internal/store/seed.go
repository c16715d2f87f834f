package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
)

//go:embed seed/default.toml
var defaultSeed []byte

// Seed is the TOML document imported into a fresh database.
type Seed struct {
	Departments []SeedNamed     `toml:"departments"`
	Locations   []SeedNamed     `toml:"locations"`
	BasicInfo   []SeedBasicInfo `toml:"basic_info"`
	Details     []SeedDetail    `toml:"details"`
}

// SeedNamed is a department or location row.
type SeedNamed struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

// SeedBasicInfo is a first-step row.
type SeedBasicInfo struct {
	ID           int    `toml:"id"`
	Name         string `toml:"name"`
	Email        string `toml:"email"`
	DepartmentID int    `toml:"department_id"`
	Role         string `toml:"role"`
	EmployeeID   string `toml:"employee_id"`
}

// SeedDetail is a second-step row.
type SeedDetail struct {
	ID             int      `toml:"id"`
	BasicInfoID    int      `toml:"basic_info_id"`
	LocationID     int      `toml:"location_id"`
	StartDate      string   `toml:"start_date"`
	EndDate        string   `toml:"end_date"`
	Salary         *float64 `toml:"salary"`
	EmploymentType string   `toml:"employment_type"`
	Notes          string   `toml:"notes"`
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return Seed{}, appErrors.Wrap(appErrors.CodeParseFailed, "parse seed", err)
	}
	return seed, nil
}

// LoadSeed reads a seed file, or the built-in seed when path is empty.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// Empty reports whether the database holds no departments yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	_, total, err := s.Departments(ctx, Query{Limit: 1})
	if err != nil {
		return false, err
	}
	return total == 0, nil
}

// Import writes the seed rows, overwriting rows with the same IDs.
func (s *Store) Import(ctx context.Context, seed Seed) error {
	for _, d := range seed.Departments {
		if _, err := s.PutDepartment(ctx, domain.Department{ID: d.ID, Name: d.Name}); err != nil {
			return err
		}
	}
	for _, l := range seed.Locations {
		if _, err := s.PutLocation(ctx, domain.Location{ID: l.ID, Name: l.Name}); err != nil {
			return err
		}
	}
	for _, b := range seed.BasicInfo {
		info := domain.BasicInfo{
			ID:           b.ID,
			Name:         b.Name,
			Email:        b.Email,
			DepartmentID: b.DepartmentID,
			Role:         domain.Role(b.Role),
			EmployeeID:   b.EmployeeID,
		}
		if b.ID > 0 {
			_, err := s.ReplaceBasicInfo(ctx, b.ID, info)
			if err == nil {
				continue
			}
			if !appErrors.IsCode(err, appErrors.CodeNotFound) {
				return err
			}
		}
		if _, err := s.CreateBasicInfo(ctx, info); err != nil {
			return err
		}
	}
	for _, d := range seed.Details {
		detail := domain.Detail{
			ID:             d.ID,
			BasicInfoID:    d.BasicInfoID,
			LocationID:     d.LocationID,
			StartDate:      d.StartDate,
			EndDate:        d.EndDate,
			Salary:         d.Salary,
			EmploymentType: domain.EmploymentType(d.EmploymentType),
			Notes:          d.Notes,
		}
		if d.ID > 0 {
			_, err := s.ReplaceDetail(ctx, d.ID, detail)
			if err == nil {
				continue
			}
			if !appErrors.IsCode(err, appErrors.CodeNotFound) {
				return err
			}
		}
		if _, err := s.CreateDetail(ctx, detail); err != nil {
			return err
		}
	}
	return nil
}

// SeedIfEmpty imports seed into a database with no departments.
func (s *Store) SeedIfEmpty(ctx context.Context, seed Seed) (bool, error) {
	empty, err := s.Empty(ctx)
	if err != nil || !empty {
		return false, err
	}
	return true, s.Import(ctx, seed)
}
