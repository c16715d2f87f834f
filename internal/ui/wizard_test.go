package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"onboard/internal/api"
	"onboard/internal/autocomplete"
	"onboard/internal/domain"
	"onboard/internal/draft"
)

var wizardNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func wizardClient() *api.MockClient {
	mock := api.NewMockClient()
	mock.DepartmentsFn = func(context.Context) ([]domain.Department, error) {
		return []domain.Department{{ID: 1, Name: "Engineering"}, {ID: 2, Name: "Finance"}}, nil
	}
	mock.BasicInfoFn = func(context.Context) ([]domain.BasicInfo, error) {
		return []domain.BasicInfo{
			{ID: 1, DepartmentID: 1, EmployeeID: "ENG-001"},
			{ID: 2, DepartmentID: 1, EmployeeID: "ENG-007"},
			{ID: 3, DepartmentID: 2, EmployeeID: "FIN-003"},
		}, nil
	}
	mock.CreateBasicInfoFn = func(_ context.Context, info domain.BasicInfo) (domain.BasicInfo, error) {
		info.ID = 42
		return info, nil
	}
	mock.CreateDetailsFn = func(_ context.Context, d domain.Detail) (domain.Detail, error) {
		d.ID = 7
		return d, nil
	}
	return mock
}

func newTestWizard(t *testing.T, client api.Client, drafts *draft.Store) Wizard {
	t.Helper()
	w := NewWizard(WizardConfig{
		Client: client,
		Drafts: drafts,
		Keys:   DefaultKeyMap(),
		Search: autocomplete.Config{Debounce: -1},
		Now:    func() time.Time { return wizardNow },
	})
	w, _ = w.Start()
	w, _ = w.Update(loadLookupsCmd(client, 0)())
	return w
}

// feed drains cmd and hands its messages back to the wizard, a few rounds
// deep, returning everything that came out.
func feed(t *testing.T, w Wizard, cmd tea.Cmd) (Wizard, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	for round := 0; round < 4 && cmd != nil; round++ {
		var next []tea.Cmd
		for _, msg := range runCmd(t, cmd) {
			seen = append(seen, msg)
			if _, ok := msg.(spinner.TickMsg); ok {
				continue
			}
			var c tea.Cmd
			w, c = w.Update(msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return w, seen
}

func press(t *testing.T, w Wizard, msg tea.KeyMsg) (Wizard, []tea.Msg) {
	t.Helper()
	w, cmd := w.Update(msg)
	return feed(t, w, cmd)
}

func typeText(t *testing.T, w Wizard, s string) Wizard {
	t.Helper()
	w, _ = press(t, w, keyRunes(s))
	return w
}

func selectLookup(t *testing.T, w Wizard, id, value, label string) Wizard {
	t.Helper()
	w, cmd := w.Update(AutocompleteSelectedMsg{ID: id, Value: value, Option: autocomplete.Option{Value: value, Label: label}})
	w, _ = feed(t, w, cmd)
	return w
}

// fillStep1 completes the first step and moves to the second.
func fillStep1(t *testing.T, w Wizard) Wizard {
	t.Helper()
	w = typeText(t, w, "Sari Dewi")
	w, _ = press(t, w, keyType(tea.KeyTab))
	w = typeText(t, w, "sari@example.com")
	w, _ = press(t, w, keyType(tea.KeyTab))
	w = selectLookup(t, w, acDepartment, "1", "Engineering")
	w, _ = press(t, w, keyType(tea.KeyTab))
	for range 3 {
		w, _ = press(t, w, keyType(tea.KeyRight))
	}
	w, _ = press(t, w, keyType(tea.KeyCtrlS))
	return w
}

func TestWizardStartsOnStepOneWithDepartmentEnabled(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	if w.Step() != 1 {
		t.Fatalf("expected step 1, got %d", w.Step())
	}
	if w.department.State().Config.Disabled {
		t.Fatalf("department should be enabled once lookups load")
	}
	if w.CanAdvance() {
		t.Fatalf("empty form must not advance")
	}
}

func TestWizardBlurShowsRequiredErrors(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	if got := w.FieldError(domain.FieldName); got != "" {
		t.Fatalf("untouched field should have no error, got %q", got)
	}

	w, _ = press(t, w, keyType(tea.KeyTab))
	if got := w.FieldError(domain.FieldName); got != "Name is required" {
		t.Fatalf("name error = %q", got)
	}

	w, _ = press(t, w, keyType(tea.KeyTab))
	if got := w.FieldError(domain.FieldEmail); got != "Email is required" {
		t.Fatalf("email error = %q", got)
	}

	w, _ = press(t, w, keyType(tea.KeyTab))
	if got := w.FieldError(domain.FieldDepartment); got != "Department is required" {
		t.Fatalf("department error = %q", got)
	}
}

func TestWizardRevalidatesShownErrorWhileTyping(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	w, _ = press(t, w, keyType(tea.KeyTab))
	w, _ = press(t, w, keyType(tea.KeyShiftTab))

	w = typeText(t, w, "A")
	if got := w.FieldError(domain.FieldName); got != "Name must be at least 2 characters" {
		t.Fatalf("name error = %q", got)
	}
	w = typeText(t, w, "n")
	if got := w.FieldError(domain.FieldName); got != "" {
		t.Fatalf("valid name should clear the error, got %q", got)
	}
}

func TestWizardInvalidEmailMessage(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	w, _ = press(t, w, keyType(tea.KeyTab))
	w = typeText(t, w, "not-an-email")
	w, _ = press(t, w, keyType(tea.KeyTab))
	if got := w.FieldError(domain.FieldEmail); got != "Invalid email format" {
		t.Fatalf("email error = %q", got)
	}
}

func TestWizardSubmitOnInvalidStepShowsEveryError(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	w, _ = press(t, w, keyType(tea.KeyCtrlS))
	if w.Step() != 1 {
		t.Fatalf("invalid step must not advance")
	}
	for _, f := range []string{domain.FieldName, domain.FieldEmail, domain.FieldDepartment, domain.FieldRole} {
		if w.FieldError(f) == "" {
			t.Fatalf("expected an error for %s", f)
		}
	}
}

func TestWizardDepartmentSelectionGeneratesEmployeeID(t *testing.T) {
	plainColors(t)
	w := newTestWizard(t, wizardClient(), nil)
	w = selectLookup(t, w, acDepartment, "1", "Engineering")

	if got := w.Step1().EmployeeID; got != "ENG-008" {
		t.Fatalf("employee ID = %q, want ENG-008", got)
	}
	if dept := w.Step1().Department; dept == nil || dept.Name != "Engineering" {
		t.Fatalf("department not stored: %+v", dept)
	}
	if !strings.Contains(ansi.Strip(w.View()), "ENG-008") {
		t.Fatalf("view should show the generated ID:\n%s", w.View())
	}

	w = selectLookup(t, w, acDepartment, "", "")
	if w.Step1().Department != nil || w.Step1().EmployeeID != "" {
		t.Fatalf("clearing the department should drop the ID: %+v", w.Step1())
	}
}

func TestWizardLateEmployeeIDForOldDepartmentIgnored(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	w, _ = w.Update(AutocompleteSelectedMsg{ID: acDepartment, Value: "2", Option: autocomplete.Option{Value: "2", Label: "Finance"}})
	w, _ = w.Update(employeeIDMsg{departmentID: 1, employeeID: "ENG-008"})
	if w.Step1().EmployeeID != "" {
		t.Fatalf("ID for another department must be ignored, got %q", w.Step1().EmployeeID)
	}
	w, _ = w.Update(employeeIDMsg{departmentID: 2, employeeID: "FIN-004"})
	if w.Step1().EmployeeID != "FIN-004" {
		t.Fatalf("expected FIN-004, got %q", w.Step1().EmployeeID)
	}
}

func TestWizardStepTransitions(t *testing.T) {
	plainColors(t)
	w := fillStep1(t, newTestWizard(t, wizardClient(), nil))
	if w.Step() != 2 {
		t.Fatalf("valid step 1 should advance, errors %v", w.errs)
	}
	if w.Step1().Role != domain.RoleEngineer {
		t.Fatalf("role = %q", w.Step1().Role)
	}
	view := ansi.Strip(w.View())
	if !strings.Contains(view, "Employee Information - Step 2") || !strings.Contains(view, "Back") {
		t.Fatalf("unexpected step 2 view:\n%s", view)
	}

	w, _ = press(t, w, keyType(tea.KeyCtrlB))
	if w.Step() != 1 {
		t.Fatalf("back should return to step 1")
	}
	if w.Step1().Name != "Sari Dewi" {
		t.Fatalf("step 1 values should survive going back, got %+v", w.Step1())
	}
}

func TestWizardSubmitCreatesBothRecords(t *testing.T) {
	client := wizardClient()
	w := fillStep1(t, newTestWizard(t, client, nil))

	w, _ = press(t, w, keyType(tea.KeyTab))
	w, _ = press(t, w, keyType(tea.KeyRight))
	w, _ = press(t, w, keyType(tea.KeyTab))
	w = selectLookup(t, w, acLocation, "5", "Jakarta")
	w, _ = press(t, w, keyType(tea.KeyTab))
	w = typeText(t, w, "Starts remote")

	if !w.CanAdvance() {
		t.Fatalf("step 2 should be complete: %+v", w.Step2())
	}
	_, msgs := press(t, w, keyType(tea.KeyCtrlS))

	done, ok := findMsg[wizardDoneMsg](msgs)
	if !ok {
		t.Fatalf("expected wizardDoneMsg, got %#v", msgs)
	}
	if done.info.ID != 42 || done.info.EmployeeID != "ENG-008" {
		t.Fatalf("unexpected created info %+v", done.info)
	}
	if len(client.CreateBasicInfoArgs) != 1 || len(client.CreateDetailsArgs) != 1 {
		t.Fatalf("expected one create per service, got %d and %d", len(client.CreateBasicInfoArgs), len(client.CreateDetailsArgs))
	}
	detail := client.CreateDetailsArgs[0]
	if detail.BasicInfoID != 42 || detail.LocationID != 5 || detail.EmploymentType != domain.EmploymentFullTime {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if detail.StartDate != "2026-03-01" || detail.Notes != "Starts remote" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestWizardSubmitFailureShowsMessage(t *testing.T) {
	plainColors(t)
	client := wizardClient()
	client.CreateBasicInfoFn = func(context.Context, domain.BasicInfo) (domain.BasicInfo, error) {
		return domain.BasicInfo{}, errors.New("503")
	}
	w := fillStep1(t, newTestWizard(t, client, nil))
	w, _ = press(t, w, keyType(tea.KeyTab))
	w, _ = press(t, w, keyType(tea.KeyRight))
	w = selectLookup(t, w, acLocation, "5", "Jakarta")

	w, msgs := press(t, w, keyType(tea.KeyCtrlS))
	if _, ok := findMsg[wizardDoneMsg](msgs); ok {
		t.Fatalf("failed submit must not finish the wizard")
	}
	if w.Submitting() {
		t.Fatalf("submitting should end after the failure")
	}
	if !strings.Contains(ansi.Strip(w.View()), submitFailedMsg) {
		t.Fatalf("expected failure message in view:\n%s", w.View())
	}
	if len(client.CreateDetailsArgs) != 0 {
		t.Fatalf("details must not be created after basic info failed")
	}
}

func TestWizardEscapeCancels(t *testing.T) {
	w := newTestWizard(t, wizardClient(), nil)
	_, msgs := press(t, w, keyType(tea.KeyEsc))
	if _, ok := findMsg[wizardCancelMsg](msgs); !ok {
		t.Fatalf("escape should cancel the wizard, got %#v", msgs)
	}
}

func TestWizardRestoresAndClearsDrafts(t *testing.T) {
	store, err := draft.Open(":memory:")
	if err != nil {
		t.Fatalf("open drafts: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	saved := domain.Step1{Name: "Bima", Email: "bima@example.com", Role: domain.RoleOps}
	if err := store.Save(ctx, draft.KeyStep1, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	w := newTestWizard(t, wizardClient(), store)
	if w.Step1().Name != "Bima" || w.name.Value() != "Bima" || w.role.Value() != "ops" {
		t.Fatalf("draft not restored: %+v", w.Step1())
	}
	if !w.HasDraft() {
		t.Fatalf("restored step should report a draft")
	}

	w, _ = press(t, w, keyType(tea.KeyCtrlD))
	if w.Step1().Name != "" || w.HasDraft() {
		t.Fatalf("clear should reset the step: %+v", w.Step1())
	}
	exists, err := store.Exists(ctx, draft.KeyStep1)
	if err != nil || exists {
		t.Fatalf("draft should be deleted, exists=%v err=%v", exists, err)
	}
}

func TestWizardTypingSavesDraft(t *testing.T) {
	store, err := draft.Open(":memory:")
	if err != nil {
		t.Fatalf("open drafts: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	w := newTestWizard(t, wizardClient(), store)
	w = typeText(t, w, "Dewi")
	if !w.HasDraft() {
		t.Fatalf("typing should save a draft")
	}
	var got domain.Step1
	_, ok, err := store.Load(context.Background(), draft.KeyStep1, &got)
	if err != nil || !ok || got.Name != "Dewi" {
		t.Fatalf("stored draft = %+v ok=%v err=%v", got, ok, err)
	}
}

func TestWizardSaveQueuedBeforeClearDoesNotRestoreDraft(t *testing.T) {
	store, err := draft.Open(":memory:")
	if err != nil {
		t.Fatalf("open drafts: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	w := newTestWizard(t, wizardClient(), store)
	w = typeText(t, w, "Ana")
	w, queued := w.Update(keyRunes("s"))
	w, _ = press(t, w, keyType(tea.KeyCtrlD))

	w, _ = feed(t, w, queued)
	if w.HasDraft() {
		t.Fatalf("a save issued before the clear must not count as a draft")
	}
	exists, err := store.Exists(context.Background(), draft.KeyStep1)
	if err != nil || exists {
		t.Fatalf("cleared draft came back, exists=%v err=%v", exists, err)
	}
}

func TestWizardLookupFailureStillEnablesDepartment(t *testing.T) {
	plainColors(t)
	client := wizardClient()
	client.DepartmentsFn = func(context.Context) ([]domain.Department, error) {
		return nil, errors.New("down")
	}
	w := newTestWizard(t, client, nil)
	if w.department.State().Config.Disabled {
		t.Fatalf("department should be usable after a lookup failure")
	}
	if !strings.Contains(ansi.Strip(w.View()), "Failed to load departments") {
		t.Fatalf("expected lookup failure in view:\n%s", w.View())
	}

	w = selectLookup(t, w, acDepartment, "3", "Operations")
	if got := w.Step1().EmployeeID; got != "OPE-001" {
		t.Fatalf("expected ID from the option label, got %q", got)
	}
}
