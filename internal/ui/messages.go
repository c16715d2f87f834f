package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"onboard/internal/api"
	"onboard/internal/avatar"
	"onboard/internal/domain"
	"onboard/internal/export"
)

type employeesLoadedMsg struct {
	page domain.EmployeePage
	err  error
}

func loadEmployeesCmd(client api.Client, page, limit int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		p, err := client.Employees(ctx, page, limit)
		return employeesLoadedMsg{page: p, err: err}
	}
}

type lookupsLoadedMsg struct {
	departments []domain.Department
	basicInfos  []domain.BasicInfo
	err         error
}

// loadLookupsCmd fetches what the first step needs: departments for the ID
// code and existing people for the ID sequence.
func loadLookupsCmd(client api.Client, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		var msg lookupsLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.departments, err = client.Departments(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.basicInfos, err = client.BasicInfo(gctx)
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

type employeeIDMsg struct {
	departmentID int
	employeeID   string
}

func generateEmployeeIDCmd(dept domain.Department, existing []domain.BasicInfo) tea.Cmd {
	return func() tea.Msg {
		return employeeIDMsg{departmentID: dept.ID, employeeID: domain.NextEmployeeID(dept, existing)}
	}
}

type imageCheckedMsg struct {
	path    string
	dataURL string
	err     error
}

func checkImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		dataURL, err := avatar.EncodeFile(path)
		return imageCheckedMsg{path: path, dataURL: dataURL, err: err}
	}
}

type submitDoneMsg struct {
	info   domain.BasicInfo
	detail domain.Detail
	err    error
}

// submitCmd creates the basic info record, then the details record that
// points at it. The image is encoded first so a bad file fails before
// anything is written.
func submitCmd(client api.Client, step1 domain.Step1, step2 domain.Step2, startDate string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		image := ""
		if step2.ImagePath != "" {
			var err error
			if image, err = avatar.EncodeFile(step2.ImagePath); err != nil {
				return submitDoneMsg{err: err}
			}
		}
		ctx, cancel := requestContext(timeout)
		defer cancel()
		info, err := client.CreateBasicInfo(ctx, step1.BasicInfo())
		if err != nil {
			return submitDoneMsg{err: fmt.Errorf("create basic info: %w", err)}
		}
		detail, err := client.CreateDetails(ctx, step2.Detail(info.ID, startDate, image))
		if err != nil {
			return submitDoneMsg{info: info, err: fmt.Errorf("create details: %w", err)}
		}
		return submitDoneMsg{info: info, detail: detail}
	}
}

type draftSavedMsg struct {
	key string
	at  time.Time
	// applied is false when a newer write to the key had already landed.
	applied bool
	err     error
}

// wizardDoneMsg tells the app the employee was created.
type wizardDoneMsg struct{ info domain.BasicInfo }

// wizardCancelMsg tells the app to leave the wizard.
type wizardCancelMsg struct{}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

func exportCmd(client api.Client, pageSize int, path string) tea.Cmd {
	return func() tea.Msg {
		rows, err := export.Collect(context.Background(), client, pageSize)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := export.WriteXLSX(f, rows); err != nil {
			_ = f.Close()
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path, count: len(rows), err: f.Close()}
	}
}

type toastExpiredMsg struct{ seq int }

func scheduleToastExpiry(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
