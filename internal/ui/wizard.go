package ui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"onboard/internal/api"
	"onboard/internal/autocomplete"
	"onboard/internal/debug"
	"onboard/internal/domain"
	"onboard/internal/draft"
	appErrors "onboard/internal/errors"
)

var wizardLogger = debug.Scope("wizard")

type wizardStep int

const (
	stepBasicInfo wizardStep = iota + 1
	stepDetails
)

const (
	acDepartment = "department"
	acLocation   = "location"

	fieldWidth      = 44
	submitFailedMsg = "Failed to submit employee data"
)

// Field order within each step.
const (
	s1Name = iota
	s1Email
	s1Department
	s1Role
	s1FieldCount
)

const (
	s2Image = iota
	s2EmploymentType
	s2Location
	s2Notes
	s2FieldCount
)

var roleOptions = func() []SelectOption {
	opts := make([]SelectOption, len(domain.Roles))
	for i, r := range domain.Roles {
		opts[i] = SelectOption{Value: string(r), Label: r.Label()}
	}
	return opts
}()

var employmentTypeOptions = func() []SelectOption {
	opts := make([]SelectOption, len(domain.EmploymentTypes))
	for i, e := range domain.EmploymentTypes {
		opts[i] = SelectOption{Value: string(e), Label: e.Label()}
	}
	return opts
}()

// WizardConfig wires the wizard to its collaborators.
type WizardConfig struct {
	Client api.Client
	// Drafts is optional; without it nothing survives a restart.
	Drafts  *draft.Store
	Keys    KeyMap
	Search  autocomplete.Config
	Timeout time.Duration
	Now     func() time.Time
}

// Wizard is the two-step onboarding form.
type Wizard struct {
	client  api.Client
	drafts  *draft.Store
	keys    KeyMap
	search  autocomplete.Config
	timeout time.Duration
	now     func() time.Time

	step  wizardStep
	focus int

	name           textinput.Model
	email          textinput.Model
	department     Autocomplete
	role           Select
	departments    []domain.Department
	basicInfos     []domain.BasicInfo
	loadingLookups bool
	lookupErr      error
	generatingID   bool
	form1          domain.Step1

	imagePath    textinput.Model
	imagePreview string
	employment   Select
	location     Autocomplete
	notes        textarea.Model
	form2        domain.Step2

	touched map[string]bool
	errs    domain.FieldErrors

	submitting bool
	submitErr  string
	savedAt    map[string]time.Time

	spinner spinner.Model
}

// NewWizard builds the form and restores any saved drafts.
func NewWizard(cfg WizardConfig) Wizard {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Search.Required = true

	w := Wizard{
		client:         cfg.Client,
		drafts:         cfg.Drafts,
		keys:           cfg.Keys,
		search:         cfg.Search,
		timeout:        cfg.Timeout,
		now:            cfg.Now,
		step:           stepBasicInfo,
		loadingLookups: true,
		touched:        map[string]bool{},
		errs:           domain.FieldErrors{},
		savedAt:        map[string]time.Time{},
		spinner:        spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	w.restoreDrafts()
	w.resetStep1Fields()
	w.resetStep2Fields()
	w.department = w.department.SetDisabled(true)
	return w
}

func (w *Wizard) restoreDrafts() {
	if w.drafts == nil {
		return
	}
	ctx := context.Background()
	if at, ok, err := w.drafts.Load(ctx, draft.KeyStep1, &w.form1); err != nil {
		wizardLogger.Logf("restore step1: %v", err)
	} else if ok {
		w.savedAt[draft.KeyStep1] = at
	}
	if at, ok, err := w.drafts.Load(ctx, draft.KeyStep2, &w.form2); err != nil {
		wizardLogger.Logf("restore step2: %v", err)
	} else if ok {
		w.savedAt[draft.KeyStep2] = at
	}
}

func newTextInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = fieldWidth - 4
	ti.SetValue(value)
	return ti
}

func (w *Wizard) resetStep1Fields() {
	w.name = newTextInput("Enter employee name", w.form1.Name)
	w.email = newTextInput("Enter employee email", w.form1.Email)

	deptName, deptValue := "", ""
	if d := w.form1.Department; d != nil {
		deptName, deptValue = d.Name, strconv.Itoa(d.ID)
	}
	w.department = NewAutocomplete(acDepartment, "Department", w.search, api.DepartmentSearcher{Client: w.client}, deptName).
		WithPlaceholder("Search department...").
		WithWidth(fieldWidth).
		WithTimeout(w.timeout)
	w.department.SelectedValue = deptValue

	w.role = NewSelect("Role", roleOptions, string(w.form1.Role))
	w.role.Placeholder = "Select role"
	w.role.Required = true
	w.role.Width = fieldWidth
}

func (w *Wizard) resetStep2Fields() {
	w.imagePath = newTextInput("Path to a JPEG or PNG file", w.form2.ImagePath)
	w.imagePreview = ""

	w.employment = NewSelect("Employment Type", employmentTypeOptions, string(w.form2.EmploymentType))
	w.employment.Placeholder = "Select employment type"
	w.employment.Required = true
	w.employment.Width = fieldWidth

	locName, locValue := "", ""
	if l := w.form2.Location; l != nil {
		locName, locValue = l.Name, strconv.Itoa(l.ID)
	}
	w.location = NewAutocomplete(acLocation, "Office Location", w.search, api.LocationSearcher{Client: w.client}, locName).
		WithPlaceholder("Search office location...").
		WithWidth(fieldWidth).
		WithTimeout(w.timeout)
	w.location.SelectedValue = locValue

	w.notes = newNotesTextarea(fieldWidth, 4, w.form2.Notes)
}

// Start focuses the first field and loads departments and existing people.
func (w Wizard) Start() (Wizard, tea.Cmd) {
	w, focusCmd := w.focusField(0)
	return w, tea.Batch(loadLookupsCmd(w.client, w.timeout), w.spinner.Tick, focusCmd)
}

// Step returns 1 or 2.
func (w Wizard) Step() int { return int(w.step) }

// Step1 and Step2 return the form values.
func (w Wizard) Step1() domain.Step1 { return w.form1 }

func (w Wizard) Step2() domain.Step2 { return w.form2 }

// Submitting reports whether the create requests are in flight.
func (w Wizard) Submitting() bool { return w.submitting }

// HasDraft reports whether the current step has a saved draft.
func (w Wizard) HasDraft() bool {
	return !w.savedAt[w.draftKey()].IsZero()
}

// FieldError returns the message shown under field, which is only set once
// the field was touched.
func (w Wizard) FieldError(field string) string {
	if !w.touched[field] {
		return ""
	}
	return w.errs[field]
}

// CanAdvance reports whether Next (step 1) or Submit (step 2) is enabled.
func (w Wizard) CanAdvance() bool {
	if w.step == stepBasicInfo {
		return w.form1.Validate().Valid() && !w.generatingID
	}
	return w.form2.Validate().Valid() && w.errs[domain.FieldImage] == "" && !w.submitting
}

func (w Wizard) draftKey() string {
	if w.step == stepDetails {
		return draft.KeyStep2
	}
	return draft.KeyStep1
}

func (w Wizard) fieldCount() int {
	if w.step == stepDetails {
		return s2FieldCount
	}
	return s1FieldCount
}

// Teardown stops both lookup fields.
func (w Wizard) Teardown() Wizard {
	w.department = w.department.Teardown()
	w.location = w.location.Teardown()
	return w
}

// Update routes messages to the focused field and handles the wizard keys.
func (w Wizard) Update(msg tea.Msg) (Wizard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)

	case autocompleteTimerMsg, autocompleteResultMsg:
		var c1, c2 tea.Cmd
		w.department, c1 = w.department.Update(msg)
		w.location, c2 = w.location.Update(msg)
		return w, tea.Batch(c1, c2)

	case AutocompleteSelectedMsg:
		return w.handleSelected(msg)

	case AutocompleteBlurMsg:
		return w.handleLookupBlur(msg.ID), nil

	case lookupsLoadedMsg:
		w.loadingLookups = false
		w.department = w.department.SetDisabled(false)
		if msg.err != nil {
			w.lookupErr = msg.err
			wizardLogger.Logf("load lookups: %v", msg.err)
			return w, nil
		}
		w.departments = msg.departments
		w.basicInfos = msg.basicInfos
		if d := w.form1.Department; d != nil && w.form1.EmployeeID == "" {
			w.generatingID = true
			return w, tea.Batch(w.spinner.Tick, generateEmployeeIDCmd(*d, w.basicInfos))
		}
		return w, nil

	case employeeIDMsg:
		if w.form1.Department == nil || w.form1.Department.ID != msg.departmentID {
			return w, nil
		}
		w.generatingID = false
		w.form1.EmployeeID = msg.employeeID
		return w, w.saveDraft(draft.KeyStep1)

	case imageCheckedMsg:
		if msg.path != w.form2.ImagePath {
			return w, nil
		}
		if msg.err != nil {
			w.errs[domain.FieldImage] = imageErrorText(msg.err)
			w.imagePreview = ""
			return w, nil
		}
		delete(w.errs, domain.FieldImage)
		w.imagePreview = imagePreview(msg.dataURL)
		return w, nil

	case submitDoneMsg:
		w.submitting = false
		if msg.err != nil {
			wizardLogger.Logf("submit: %v", msg.err)
			w.submitErr = submitFailedMsg
			return w, nil
		}
		w.savedAt = map[string]time.Time{}
		info := msg.info
		return w, tea.Sequence(w.clearAllDrafts(), emit(wizardDoneMsg{info: info}))

	case draftSavedMsg:
		if msg.err != nil {
			wizardLogger.Logf("save draft %s: %v", msg.key, msg.err)
			return w, nil
		}
		if !msg.applied {
			return w, nil
		}
		w.savedAt[msg.key] = msg.at
		return w, nil

	case spinner.TickMsg:
		if !w.loadingLookups && !w.generatingID && !w.submitting {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w Wizard) handleKey(msg tea.KeyMsg) (Wizard, tea.Cmd) {
	if w.submitting {
		return w, nil
	}
	switch {
	case key.Matches(msg, w.keys.NextField):
		return w.focusField((w.focus + 1) % w.fieldCount())
	case key.Matches(msg, w.keys.PrevField):
		return w.focusField((w.focus + w.fieldCount() - 1) % w.fieldCount())
	case key.Matches(msg, w.keys.Submit):
		return w.advance()
	case key.Matches(msg, w.keys.Back):
		if w.step == stepDetails {
			return w.goToStep(stepBasicInfo)
		}
		return w, nil
	case key.Matches(msg, w.keys.ClearDraft):
		if w.HasDraft() {
			return w.clearDraft()
		}
		return w, nil
	case key.Matches(msg, w.keys.Cancel):
		if ac, ok := w.focusedLookup(); ok && ac.State().IsOpen {
			return w.updateFocused(msg)
		}
		return w, emit(wizardCancelMsg{})
	}
	return w.updateFocused(msg)
}

func (w Wizard) focusedLookup() (Autocomplete, bool) {
	switch {
	case w.step == stepBasicInfo && w.focus == s1Department:
		return w.department, true
	case w.step == stepDetails && w.focus == s2Location:
		return w.location, true
	}
	return Autocomplete{}, false
}

func (w Wizard) updateFocused(msg tea.KeyMsg) (Wizard, tea.Cmd) {
	var cmd tea.Cmd
	if w.step == stepBasicInfo {
		switch w.focus {
		case s1Name:
			before := w.name.Value()
			w.name, cmd = w.name.Update(msg)
			if w.name.Value() != before {
				w.form1.Name = w.name.Value()
				return w.changed(domain.FieldName, draft.KeyStep1, cmd)
			}
		case s1Email:
			before := w.email.Value()
			w.email, cmd = w.email.Update(msg)
			if w.email.Value() != before {
				w.form1.Email = w.email.Value()
				return w.changed(domain.FieldEmail, draft.KeyStep1, cmd)
			}
		case s1Department:
			w.department, cmd = w.department.Update(msg)
		case s1Role:
			var changed bool
			w.role, changed = w.role.Update(msg)
			if changed {
				w.form1.Role = domain.Role(w.role.Value())
				return w.changed(domain.FieldRole, draft.KeyStep1, nil)
			}
		}
		return w, cmd
	}

	switch w.focus {
	case s2Image:
		before := w.imagePath.Value()
		w.imagePath, cmd = w.imagePath.Update(msg)
		if w.imagePath.Value() != before {
			w.form2.ImagePath = w.imagePath.Value()
			w.imagePreview = ""
			delete(w.errs, domain.FieldImage)
			return w.changed(domain.FieldImage, draft.KeyStep2, cmd)
		}
	case s2EmploymentType:
		var changed bool
		w.employment, changed = w.employment.Update(msg)
		if changed {
			w.form2.EmploymentType = domain.EmploymentType(w.employment.Value())
			return w.changed(domain.FieldEmploymentType, draft.KeyStep2, nil)
		}
	case s2Location:
		w.location, cmd = w.location.Update(msg)
	case s2Notes:
		before := w.notes.Value()
		w.notes, cmd = w.notes.Update(msg)
		if w.notes.Value() != before {
			w.form2.Notes = w.notes.Value()
			return w, tea.Batch(cmd, w.saveDraft(draft.KeyStep2))
		}
	}
	return w, cmd
}

// changed marks field touched, refreshes a visible error and saves the draft.
func (w Wizard) changed(field, draftKey string, cmd tea.Cmd) (Wizard, tea.Cmd) {
	w.touched[field] = true
	if _, shown := w.errs[field]; shown && field != domain.FieldImage {
		w.revalidate(field)
	}
	return w, tea.Batch(cmd, w.saveDraft(draftKey))
}

func (w *Wizard) revalidate(field string) {
	var all domain.FieldErrors
	if w.step == stepBasicInfo {
		all = w.form1.Validate()
	} else {
		all = w.form2.Validate()
	}
	if msg, ok := all[field]; ok {
		w.errs[field] = msg
	} else {
		delete(w.errs, field)
	}
}

// focusField blurs the current field, running its blur validation, and
// focuses field i of the current step.
func (w Wizard) focusField(i int) (Wizard, tea.Cmd) {
	w, blurCmd := w.blurCurrent()
	w.focus = i

	var focusCmd tea.Cmd
	if w.step == stepBasicInfo {
		switch i {
		case s1Name:
			focusCmd = w.name.Focus()
		case s1Email:
			focusCmd = w.email.Focus()
		case s1Department:
			w.department, focusCmd = w.department.Focus()
		case s1Role:
			w.role = w.role.Focus()
		}
	} else {
		switch i {
		case s2Image:
			focusCmd = w.imagePath.Focus()
		case s2EmploymentType:
			w.employment = w.employment.Focus()
		case s2Location:
			w.location, focusCmd = w.location.Focus()
		case s2Notes:
			focusCmd = w.notes.Focus()
		}
	}
	return w, tea.Batch(blurCmd, focusCmd)
}

func (w Wizard) blurCurrent() (Wizard, tea.Cmd) {
	var cmd tea.Cmd
	if w.step == stepBasicInfo {
		switch w.focus {
		case s1Name:
			if w.name.Focused() {
				w.name.Blur()
				w.touched[domain.FieldName] = true
				w.revalidate(domain.FieldName)
			}
		case s1Email:
			if w.email.Focused() {
				w.email.Blur()
				w.touched[domain.FieldEmail] = true
				w.revalidate(domain.FieldEmail)
			}
		case s1Department:
			if w.department.Focused() {
				w.department, cmd = w.department.Blur()
			}
		case s1Role:
			if w.role.Focused() {
				w.role = w.role.Blur()
				w.touched[domain.FieldRole] = true
				w.revalidate(domain.FieldRole)
			}
		}
		return w, cmd
	}

	switch w.focus {
	case s2Image:
		if w.imagePath.Focused() {
			w.imagePath.Blur()
			w.touched[domain.FieldImage] = true
			if w.form2.ImagePath != "" && w.imagePreview == "" && w.errs[domain.FieldImage] == "" {
				cmd = checkImageCmd(w.form2.ImagePath)
			}
		}
	case s2EmploymentType:
		if w.employment.Focused() {
			w.employment = w.employment.Blur()
			w.touched[domain.FieldEmploymentType] = true
			w.revalidate(domain.FieldEmploymentType)
		}
	case s2Location:
		if w.location.Focused() {
			w.location, cmd = w.location.Blur()
		}
	case s2Notes:
		w.notes.Blur()
	}
	return w, cmd
}

func (w Wizard) handleSelected(msg AutocompleteSelectedMsg) (Wizard, tea.Cmd) {
	switch msg.ID {
	case acDepartment:
		w.touched[domain.FieldDepartment] = true
		w.department.SelectedValue = msg.Value
		w.form1.EmployeeID = ""
		w.generatingID = false
		if msg.Value == "" {
			w.form1.Department = nil
			return w, w.saveDraft(draft.KeyStep1)
		}
		dept := w.resolveDepartment(msg.Value, msg.Option.Label)
		w.form1.Department = &dept
		delete(w.errs, domain.FieldDepartment)
		w.generatingID = true
		return w, tea.Batch(w.spinner.Tick, generateEmployeeIDCmd(dept, w.basicInfos), w.saveDraft(draft.KeyStep1))

	case acLocation:
		w.touched[domain.FieldLocation] = true
		w.location.SelectedValue = msg.Value
		if msg.Value == "" {
			w.form2.Location = nil
			return w, w.saveDraft(draft.KeyStep2)
		}
		id, _ := strconv.Atoi(msg.Value)
		w.form2.Location = &domain.Location{ID: id, Name: msg.Option.Label}
		delete(w.errs, domain.FieldLocation)
		return w, w.saveDraft(draft.KeyStep2)
	}
	return w, nil
}

// resolveDepartment prefers the loaded record and falls back to the option
// when the list is unavailable.
func (w Wizard) resolveDepartment(value, label string) domain.Department {
	id, _ := strconv.Atoi(value)
	for _, d := range w.departments {
		if d.ID == id {
			return d
		}
	}
	return domain.Department{ID: id, Name: label}
}

func (w Wizard) handleLookupBlur(id string) Wizard {
	switch id {
	case acDepartment:
		w.touched[domain.FieldDepartment] = true
		if w.form1.Department == nil {
			w.errs[domain.FieldDepartment] = "Department is required"
		}
	case acLocation:
		w.touched[domain.FieldLocation] = true
		if w.form2.Location == nil {
			w.errs[domain.FieldLocation] = "Office location is required"
		}
	}
	return w
}

func (w Wizard) advance() (Wizard, tea.Cmd) {
	if w.step == stepBasicInfo {
		errs := w.form1.Validate()
		if !errs.Valid() {
			w.showAll(errs, domain.FieldName, domain.FieldEmail, domain.FieldDepartment, domain.FieldRole)
			return w, nil
		}
		if w.generatingID {
			return w, nil
		}
		return w.goToStep(stepDetails)
	}

	errs := w.form2.Validate()
	if msg := w.errs[domain.FieldImage]; msg != "" {
		errs[domain.FieldImage] = msg
	}
	if !errs.Valid() {
		w.showAll(errs, domain.FieldImage, domain.FieldEmploymentType, domain.FieldLocation)
		return w, nil
	}
	w.submitting = true
	w.submitErr = ""
	return w, tea.Batch(w.spinner.Tick, submitCmd(w.client, w.form1, w.form2, domain.Today(w.now()), w.timeout))
}

func (w *Wizard) showAll(errs domain.FieldErrors, fields ...string) {
	for _, f := range fields {
		w.touched[f] = true
		if msg, ok := errs[f]; ok {
			w.errs[f] = msg
		} else {
			delete(w.errs, f)
		}
	}
}

func (w Wizard) goToStep(step wizardStep) (Wizard, tea.Cmd) {
	w, blurCmd := w.blurCurrent()
	w.step = step
	w.focus = -1
	w, focusCmd := w.focusField(0)
	return w, tea.Batch(blurCmd, focusCmd)
}

func (w Wizard) clearDraft() (Wizard, tea.Cmd) {
	key := w.draftKey()
	delete(w.savedAt, key)
	var fields []string
	if w.step == stepBasicInfo {
		w.department = w.department.Teardown()
		w.form1 = domain.Step1{}
		w.resetStep1Fields()
		w.department = w.department.SetDisabled(w.loadingLookups)
		w.generatingID = false
		fields = []string{domain.FieldName, domain.FieldEmail, domain.FieldDepartment, domain.FieldRole}
	} else {
		w.location = w.location.Teardown()
		w.form2 = domain.Step2{}
		w.resetStep2Fields()
		fields = []string{domain.FieldImage, domain.FieldEmploymentType, domain.FieldLocation}
	}
	for _, f := range fields {
		delete(w.touched, f)
		delete(w.errs, f)
	}
	w.focus = -1
	w, focusCmd := w.focusField(0)
	return w, tea.Batch(focusCmd, w.deleteDraft(key))
}

func (w Wizard) saveDraft(key string) tea.Cmd {
	if w.drafts == nil {
		return nil
	}
	store, now := w.drafts, w.now
	var value any = w.form1
	if key == draft.KeyStep2 {
		value = w.form2
	}
	// Commands run concurrently; the revision keeps the snapshots in order.
	rev := store.Revision()
	return func() tea.Msg {
		applied, err := store.SaveAt(context.Background(), key, rev, value)
		return draftSavedMsg{key: key, at: now(), applied: applied, err: err}
	}
}

func (w Wizard) deleteDraft(key string) tea.Cmd {
	if w.drafts == nil {
		return nil
	}
	store := w.drafts
	rev := store.Revision()
	return func() tea.Msg {
		if err := store.ClearAt(context.Background(), key, rev); err != nil {
			wizardLogger.Logf("clear draft %s: %v", key, err)
		}
		return nil
	}
}

func (w Wizard) clearAllDrafts() tea.Cmd {
	if w.drafts == nil {
		return nil
	}
	store := w.drafts
	rev := store.Revision()
	return func() tea.Msg {
		if err := store.ClearAllAt(context.Background(), rev); err != nil {
			wizardLogger.Logf("clear drafts: %v", err)
		}
		return nil
	}
}

func imageErrorText(err error) string {
	var appErr appErrors.Error
	if errors.As(err, &appErr) && appErr.Code == appErrors.CodeInvalidImage {
		return appErr.Message
	}
	return "Could not read image"
}
