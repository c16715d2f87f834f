package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "onboard-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func seedDepartments(t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := s.PutDepartment(context.Background(), domain.Department{Name: name})
		require.NoError(t, err)
	}
}

func TestDepartmentsNameLikeIsCaseInsensitiveSubstring(t *testing.T) {
	s := openTestStore(t)
	seedDepartments(t, s, "Engineering", "Finance", "Marketing", "Human Resources")
	ctx := context.Background()

	got, total, err := s.Departments(ctx, Query{NameLike: "IN"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	names := make([]string, len(got))
	for i, d := range got {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"Engineering", "Finance", "Marketing"}, names)

	got, total, err = s.Departments(ctx, Query{NameLike: "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNameLikeEscapesWildcards(t *testing.T) {
	s := openTestStore(t)
	seedDepartments(t, s, "R&D", "100% Sales", "Field_Ops", "FieldXOps")
	ctx := context.Background()

	got, _, err := s.Departments(ctx, Query{NameLike: "%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Sales", got[0].Name)

	got, _, err = s.Departments(ctx, Query{NameLike: "d_o"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Field_Ops", got[0].Name)
}

func TestPagingReportsTotal(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDepartments(t, s, "Engineering")
	for i := 0; i < 23; i++ {
		_, err := s.CreateBasicInfo(ctx, domain.BasicInfo{Name: "Person", Email: "p@example.com", DepartmentID: 1, Role: domain.RoleOps})
		require.NoError(t, err)
	}

	page, total, err := s.BasicInfos(ctx, Query{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	require.Len(t, page, 3)
	assert.Equal(t, 21, page[0].ID)

	page, _, err = s.BasicInfos(ctx, Query{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page, DefaultLimit)

	all, total, err := s.BasicInfos(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	assert.Len(t, all, 23)
}

func TestBasicInfoCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBasicInfo(ctx, domain.BasicInfo{
		Name: "Ada", Email: "ada@example.com", DepartmentID: 1, Role: domain.RoleEngineer, EmployeeID: "ENG-001",
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	loaded, err := s.BasicInfo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	replaced, err := s.ReplaceBasicInfo(ctx, created.ID, domain.BasicInfo{
		Name: "Ada L", Email: "ada@example.org", DepartmentID: 2, Role: domain.RoleAdmin, EmployeeID: "FIN-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", replaced.Name)

	email := "ada@new.example"
	patched, err := s.PatchBasicInfo(ctx, created.ID, BasicInfoPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", patched.Name)
	assert.Equal(t, email, patched.Email)
	assert.Equal(t, domain.RoleAdmin, patched.Role)

	_, err = s.CreateDetail(ctx, domain.Detail{BasicInfoID: created.ID, LocationID: 1, StartDate: "2024-01-01"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBasicInfo(ctx, created.ID))
	_, err = s.BasicInfo(ctx, created.ID)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound))

	details, total, err := s.Details(ctx, DetailQuery{BasicInfoIDs: []int{created.ID}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, details)
}

func TestMissingRecordsAreNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceBasicInfo(ctx, 42, domain.BasicInfo{Name: "x"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound), "replace: %v", err)

	_, err = s.PatchDetail(ctx, 42, DetailPatch{})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound), "patch: %v", err)

	err = s.DeleteDetail(ctx, 42)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound), "delete: %v", err)

	_, err = s.Department(ctx, 42)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeNotFound), "department: %v", err)
}

func TestDetailsRoundTripOptionalColumns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	salary := 4200.5
	created, err := s.CreateDetail(ctx, domain.Detail{
		BasicInfoID:    7,
		LocationID:     2,
		StartDate:      "2024-05-01",
		Salary:         &salary,
		EmploymentType: domain.EmploymentContract,
		Notes:          "remote first",
		Image:          "data:image/png;base64,AA==",
	})
	require.NoError(t, err)

	bare, err := s.CreateDetail(ctx, domain.Detail{BasicInfoID: 8, LocationID: 1, StartDate: "2024-05-02"})
	require.NoError(t, err)

	loaded, err := s.Detail(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Salary)
	assert.InDelta(t, salary, *loaded.Salary, 0.001)
	assert.Equal(t, "remote first", loaded.Notes)

	loadedBare, err := s.Detail(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, loadedBare.Salary)
	assert.Empty(t, loadedBare.EndDate)
	assert.Equal(t, domain.EmploymentUnknown, loadedBare.EmploymentType)

	end := "2024-12-31"
	patched, err := s.PatchDetail(ctx, bare.ID, DetailPatch{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, end, patched.EndDate)
	assert.Equal(t, "2024-05-02", patched.StartDate)

	owned, total, err := s.Details(ctx, DetailQuery{BasicInfoIDs: []int{7, 99}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, owned, 1)
	assert.Equal(t, created.ID, owned[0].ID)
}

func TestDefaultSeedImport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed, err := LoadSeed("")
	require.NoError(t, err)
	require.NotEmpty(t, seed.Departments)

	imported, err := s.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.True(t, imported)

	imported, err = s.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.False(t, imported, "second import should be skipped")

	eng, err := s.Department(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", eng.Name)

	locs, total, err := s.Locations(ctx, Query{NameLike: "jak"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Jakarta", locs[0].Name)

	detail, err := s.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, detail.Notes, "**payments**")

	// Re-importing overwrites rows in place.
	require.NoError(t, s.Import(ctx, seed))
	_, total, err = s.BasicInfos(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, len(seed.BasicInfo), total)
}

func TestParseSeedRejectsBadTOML(t *testing.T) {
	_, err := ParseSeed([]byte("[[departments]\nname = "))
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeParseFailed))
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()
	empty, err := s.Empty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)
}
