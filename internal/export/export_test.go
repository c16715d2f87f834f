package export

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/api"
	"onboard/internal/domain"
)

func sampleRows() []domain.Employee {
	return []domain.Employee{
		{EmployeeID: "ENG-001", Name: "Sari", Email: "sari@example.com", Department: "Engineering", Role: domain.RoleEngineer, Location: "Jakarta", EmploymentType: domain.EmploymentFullTime, StartDate: "2024-02-01", Image: "data:image/png;base64,AA=="},
		{EmployeeID: "FIN-001", Name: "Bima", Email: "bima@example.com", Department: "Finance", Role: domain.RoleFinance},
	}
}

func TestCollectWalksAllPages(t *testing.T) {
	mock := api.NewMockClient()
	mock.EmployeesFn = func(_ context.Context, page, limit int) (domain.EmployeePage, error) {
		items := []domain.Employee{{Name: "p" + string(rune('0'+page))}}
		return domain.EmployeePage{Items: items, TotalCount: 3, Page: page, Limit: limit}, nil
	}

	rows, err := Collect(context.Background(), mock, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "p3", rows[2].Name)
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}, {3, 1}}, mock.EmployeesCallArgs)
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	rows, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "ENG-001", rows[1][0])
	assert.Equal(t, "Engineer", rows[1][4])
	assert.Equal(t, "Full Time", rows[1][6])
	assert.Equal(t, "yes", rows[1][8])
	assert.Equal(t, "no", rows[2][8])
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))
	rows, err := ReadXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteTextFormats(t *testing.T) {
	var plain bytes.Buffer
	require.NoError(t, WriteText(&plain, sampleRows(), FormatPlain))
	lines := strings.Split(strings.TrimRight(plain.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Engineering")

	var rich bytes.Buffer
	require.NoError(t, WriteText(&rich, sampleRows(), FormatRich))
	stripped := ansi.Strip(rich.String())
	assert.Contains(t, stripped, "2 employees")
	assert.Contains(t, stripped, "Bima")

	var js bytes.Buffer
	require.NoError(t, WriteText(&js, sampleRows(), FormatJSON))
	var decoded []domain.Employee
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, sampleRows(), decoded)

	var fallback bytes.Buffer
	require.NoError(t, WriteText(&fallback, sampleRows(), "yaml"))
	assert.Equal(t, plain.String(), fallback.String())
}
