package store

import (
	"context"
	"database/sql"
	"strings"

	"onboard/internal/domain"
)

// DetailQuery narrows a details listing. BasicInfoIDs matches any of the
// given owners.
type DetailQuery struct {
	Query
	BasicInfoIDs []int
}

// DetailPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type DetailPatch struct {
	BasicInfoID    *int                   `json:"basicInfoId,omitempty"`
	LocationID     *int                   `json:"locationId,omitempty"`
	StartDate      *string                `json:"startDate,omitempty"`
	EndDate        *string                `json:"endDate,omitempty"`
	Salary         *float64               `json:"salary,omitempty"`
	EmploymentType *domain.EmploymentType `json:"employmentType,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
	Image          *string                `json:"image,omitempty"`
}

// Apply merges the patch into d.
func (p DetailPatch) Apply(d domain.Detail) domain.Detail {
	if p.BasicInfoID != nil {
		d.BasicInfoID = *p.BasicInfoID
	}
	if p.LocationID != nil {
		d.LocationID = *p.LocationID
	}
	if p.StartDate != nil {
		d.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = *p.EndDate
	}
	if p.Salary != nil {
		salary := *p.Salary
		d.Salary = &salary
	}
	if p.EmploymentType != nil {
		d.EmploymentType = *p.EmploymentType
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.Image != nil {
		d.Image = *p.Image
	}
	return d
}

const detailCols = `id, basic_info_id, location_id, start_date, end_date, salary, employment_type, notes, image`

func scanDetail(scanner interface{ Scan(dest ...any) error }) (domain.Detail, error) {
	var (
		d                            domain.Detail
		endDate, empType, notes, img sql.NullString
		salary                       sql.NullFloat64
	)
	if err := scanner.Scan(&d.ID, &d.BasicInfoID, &d.LocationID, &d.StartDate, &endDate, &salary, &empType, &notes, &img); err != nil {
		return domain.Detail{}, err
	}
	d.EndDate = endDate.String
	d.EmploymentType = domain.EmploymentType(empType.String)
	d.Notes = notes.String
	d.Image = img.String
	if salary.Valid {
		v := salary.Float64
		d.Salary = &v
	}
	return d, nil
}

func salaryArg(s *float64) sql.NullFloat64 {
	if s == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *s, Valid: true}
}

// Details lists second-step records matching q and the total match count.
func (s *Store) Details(ctx context.Context, q DetailQuery) ([]domain.Detail, int, error) {
	var where string
	var args []any
	if len(q.BasicInfoIDs) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(q.BasicInfoIDs)), ",")
		where = ` WHERE basic_info_id IN (` + marks + `)`
		for _, id := range q.BasicInfoIDs {
			args = append(args, id)
		}
	}
	total, err := s.count(ctx, `SELECT COUNT(*) FROM details`+where, args)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + detailCols + ` FROM details` + where + ` ORDER BY id`
	if q.paged() {
		limit, offset := q.limitOffset()
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storageError("query details", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []domain.Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, storageError("scan details", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("iterate details", err)
	}
	return out, total, nil
}

// Detail loads one record.
func (s *Store) Detail(ctx context.Context, id int) (domain.Detail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+detailCols+` FROM details WHERE id = ?`, id)
	d, err := scanDetail(row)
	if err != nil {
		return domain.Detail{}, rowOrNotFound(err, "details", id)
	}
	return d, nil
}

// CreateDetail inserts d. A non-zero d.ID is kept.
func (s *Store) CreateDetail(ctx context.Context, d domain.Detail) (domain.Detail, error) {
	var id any
	if d.ID > 0 {
		id = d.ID
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO details
		(id, basic_info_id, location_id, start_date, end_date, salary, employment_type, notes, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.BasicInfoID, d.LocationID, d.StartDate, nullString(d.EndDate), salaryArg(d.Salary),
		nullString(string(d.EmploymentType)), nullString(d.Notes), nullString(d.Image))
	if err != nil {
		return domain.Detail{}, storageError("insert details", err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return domain.Detail{}, storageError("insert details", err)
	}
	d.ID = int(newID)
	return d, nil
}

// ReplaceDetail overwrites every field of record id.
func (s *Store) ReplaceDetail(ctx context.Context, id int, d domain.Detail) (domain.Detail, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE details
		SET basic_info_id = ?, location_id = ?, start_date = ?, end_date = ?, salary = ?,
			employment_type = ?, notes = ?, image = ?
		WHERE id = ?`,
		d.BasicInfoID, d.LocationID, d.StartDate, nullString(d.EndDate), salaryArg(d.Salary),
		nullString(string(d.EmploymentType)), nullString(d.Notes), nullString(d.Image), id)
	if err != nil {
		return domain.Detail{}, storageError("update details", err)
	}
	if err := affectedOrNotFound(res, "details", id); err != nil {
		return domain.Detail{}, err
	}
	d.ID = id
	return d, nil
}

// PatchDetail merges patch into record id.
func (s *Store) PatchDetail(ctx context.Context, id int, patch DetailPatch) (domain.Detail, error) {
	current, err := s.Detail(ctx, id)
	if err != nil {
		return domain.Detail{}, err
	}
	return s.ReplaceDetail(ctx, id, patch.Apply(current))
}

// DeleteDetail removes record id.
func (s *Store) DeleteDetail(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM details WHERE id = ?`, id)
	if err != nil {
		return storageError("delete details", err)
	}
	return affectedOrNotFound(res, "details", id)
}
