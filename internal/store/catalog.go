package store

import (
	"context"

	"onboard/internal/domain"
)

// named is the shape shared by departments and locations.
type named struct {
	ID   int
	Name string
}

func (s *Store) listNamed(ctx context.Context, table string, q Query) ([]named, int, error) {
	query, countSQL, args := listSQL(`id, name`, table, q)
	total, err := s.count(ctx, countSQL, args)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storageError("query "+table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []named{}
	for rows.Next() {
		var n named
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, 0, storageError("scan "+table, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("iterate "+table, err)
	}
	return out, total, nil
}

func (s *Store) getNamed(ctx context.Context, table, kind string, id int) (named, error) {
	var n named
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM `+table+` WHERE id = ?`, id).Scan(&n.ID, &n.Name)
	if err != nil {
		return named{}, rowOrNotFound(err, kind, id)
	}
	return n, nil
}

// upsertNamed inserts name, keeping an explicit id when one is given.
func (s *Store) upsertNamed(ctx context.Context, table string, id int, name string) (int, error) {
	if id > 0 {
		_, err := s.db.ExecContext(ctx, `INSERT INTO `+table+` (id, name) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
		if err != nil {
			return 0, storageError("upsert "+table, err)
		}
		return id, nil
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO `+table+` (name) VALUES (?)`, name)
	if err != nil {
		return 0, storageError("insert "+table, err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, storageError("insert "+table, err)
	}
	return int(newID), nil
}

// Departments lists departments matching q and the total match count.
func (s *Store) Departments(ctx context.Context, q Query) ([]domain.Department, int, error) {
	rows, total, err := s.listNamed(ctx, "departments", q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Department, len(rows))
	for i, r := range rows {
		out[i] = domain.Department{ID: r.ID, Name: r.Name}
	}
	return out, total, nil
}

// Department loads one department.
func (s *Store) Department(ctx context.Context, id int) (domain.Department, error) {
	n, err := s.getNamed(ctx, "departments", "department", id)
	if err != nil {
		return domain.Department{}, err
	}
	return domain.Department{ID: n.ID, Name: n.Name}, nil
}

// PutDepartment inserts or renames a department. A zero ID allocates one.
func (s *Store) PutDepartment(ctx context.Context, d domain.Department) (domain.Department, error) {
	id, err := s.upsertNamed(ctx, "departments", d.ID, d.Name)
	if err != nil {
		return domain.Department{}, err
	}
	d.ID = id
	return d, nil
}

// Locations lists offices matching q and the total match count.
func (s *Store) Locations(ctx context.Context, q Query) ([]domain.Location, int, error) {
	rows, total, err := s.listNamed(ctx, "locations", q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Location, len(rows))
	for i, r := range rows {
		out[i] = domain.Location{ID: r.ID, Name: r.Name}
	}
	return out, total, nil
}

// Location loads one office.
func (s *Store) Location(ctx context.Context, id int) (domain.Location, error) {
	n, err := s.getNamed(ctx, "locations", "location", id)
	if err != nil {
		return domain.Location{}, err
	}
	return domain.Location{ID: n.ID, Name: n.Name}, nil
}

// PutLocation inserts or renames an office. A zero ID allocates one.
func (s *Store) PutLocation(ctx context.Context, l domain.Location) (domain.Location, error) {
	id, err := s.upsertNamed(ctx, "locations", l.ID, l.Name)
	if err != nil {
		return domain.Location{}, err
	}
	l.ID = id
	return l, nil
}
