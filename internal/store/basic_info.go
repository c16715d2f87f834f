package store

import (
	"context"

	"onboard/internal/domain"
)

// BasicInfoPatch carries the fields of a partial update. Nil fields are
// left unchanged.
type BasicInfoPatch struct {
	Name         *string      `json:"name,omitempty"`
	Email        *string      `json:"email,omitempty"`
	DepartmentID *int         `json:"departmentId,omitempty"`
	Role         *domain.Role `json:"role,omitempty"`
	EmployeeID   *string      `json:"employeeId,omitempty"`
}

// Apply merges the patch into info.
func (p BasicInfoPatch) Apply(info domain.BasicInfo) domain.BasicInfo {
	if p.Name != nil {
		info.Name = *p.Name
	}
	if p.Email != nil {
		info.Email = *p.Email
	}
	if p.DepartmentID != nil {
		info.DepartmentID = *p.DepartmentID
	}
	if p.Role != nil {
		info.Role = *p.Role
	}
	if p.EmployeeID != nil {
		info.EmployeeID = *p.EmployeeID
	}
	return info
}

const basicInfoCols = `id, name, email, department_id, role, employee_id`

func scanBasicInfo(scanner interface{ Scan(dest ...any) error }) (domain.BasicInfo, error) {
	var info domain.BasicInfo
	var role string
	if err := scanner.Scan(&info.ID, &info.Name, &info.Email, &info.DepartmentID, &role, &info.EmployeeID); err != nil {
		return domain.BasicInfo{}, err
	}
	info.Role = domain.Role(role)
	return info, nil
}

// BasicInfos lists first-step records matching q and the total match count.
func (s *Store) BasicInfos(ctx context.Context, q Query) ([]domain.BasicInfo, int, error) {
	query, countSQL, args := listSQL(basicInfoCols, "basic_info", q)
	total, err := s.count(ctx, countSQL, args)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storageError("query basic_info", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []domain.BasicInfo{}
	for rows.Next() {
		info, err := scanBasicInfo(rows)
		if err != nil {
			return nil, 0, storageError("scan basic_info", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageError("iterate basic_info", err)
	}
	return out, total, nil
}

// BasicInfo loads one record.
func (s *Store) BasicInfo(ctx context.Context, id int) (domain.BasicInfo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+basicInfoCols+` FROM basic_info WHERE id = ?`, id)
	info, err := scanBasicInfo(row)
	if err != nil {
		return domain.BasicInfo{}, rowOrNotFound(err, "basicInfo", id)
	}
	return info, nil
}

// CreateBasicInfo inserts info. A non-zero info.ID is kept.
func (s *Store) CreateBasicInfo(ctx context.Context, info domain.BasicInfo) (domain.BasicInfo, error) {
	var id any
	if info.ID > 0 {
		id = info.ID
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO basic_info (id, name, email, department_id, role, employee_id)
		VALUES (?, ?, ?, ?, ?, ?)`, id, info.Name, info.Email, info.DepartmentID, string(info.Role), info.EmployeeID)
	if err != nil {
		return domain.BasicInfo{}, storageError("insert basic_info", err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return domain.BasicInfo{}, storageError("insert basic_info", err)
	}
	info.ID = int(newID)
	info.DepartmentName = ""
	return info, nil
}

// ReplaceBasicInfo overwrites every field of record id.
func (s *Store) ReplaceBasicInfo(ctx context.Context, id int, info domain.BasicInfo) (domain.BasicInfo, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE basic_info
		SET name = ?, email = ?, department_id = ?, role = ?, employee_id = ?
		WHERE id = ?`, info.Name, info.Email, info.DepartmentID, string(info.Role), info.EmployeeID, id)
	if err != nil {
		return domain.BasicInfo{}, storageError("update basic_info", err)
	}
	if err := affectedOrNotFound(res, "basicInfo", id); err != nil {
		return domain.BasicInfo{}, err
	}
	info.ID = id
	info.DepartmentName = ""
	return info, nil
}

// PatchBasicInfo merges patch into record id.
func (s *Store) PatchBasicInfo(ctx context.Context, id int, patch BasicInfoPatch) (domain.BasicInfo, error) {
	current, err := s.BasicInfo(ctx, id)
	if err != nil {
		return domain.BasicInfo{}, err
	}
	return s.ReplaceBasicInfo(ctx, id, patch.Apply(current))
}

// DeleteBasicInfo removes record id and its details.
func (s *Store) DeleteBasicInfo(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin delete", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM basic_info WHERE id = ?`, id)
	if err != nil {
		return storageError("delete basic_info", err)
	}
	if err := affectedOrNotFound(res, "basicInfo", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM details WHERE basic_info_id = ?`, id); err != nil {
		return storageError("delete details", err)
	}
	if err := tx.Commit(); err != nil {
		return storageError("commit delete", err)
	}
	return nil
}
