package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"onboard/internal/avatar"
	"onboard/internal/domain"
)

// View renders the current step. The focused lookup's dropdown is painted
// over the fields below it.
func (w Wizard) View() string {
	var (
		parts    []string
		y        int
		dropdown string
		dropY    int
	)
	add := func(block string) {
		parts = append(parts, block)
		y += lipgloss.Height(block)
	}
	addLookup := func(ac Autocomplete) {
		if ac.Focused() {
			if dd := ac.DropdownView(); dd != "" {
				dropdown = dd
				// Below the label line and the bordered input.
				dropY = y + 4
			}
		}
		add(ac.View())
	}

	if w.step == stepBasicInfo {
		add(styleTitle().Render("Employee Information - Step 1"))
		add(styleSubtitle().Render("Basic employee details"))
		add("")
		add(w.textField("Name", true, w.name.View(), w.focus == s1Name, w.FieldError(domain.FieldName)))
		add(w.textField("Email", true, w.email.View(), w.focus == s1Email, w.FieldError(domain.FieldEmail)))

		dept := w.department
		dept.Error = w.FieldError(domain.FieldDepartment)
		if dept.Error == "" && w.lookupErr != nil {
			dept.Error = "Failed to load departments"
		}
		addLookup(dept)

		role := w.role
		role.Error = w.FieldError(domain.FieldRole)
		add(role.View())
		add(w.employeeIDField())
	} else {
		add(styleTitle().Render("Employee Information - Step 2"))
		add(styleSubtitle().Render("Additional details and preferences"))
		add("")
		add(w.imageField())

		emp := w.employment
		emp.Error = w.FieldError(domain.FieldEmploymentType)
		add(emp.View())

		loc := w.location
		loc.Error = w.FieldError(domain.FieldLocation)
		addLookup(loc)

		add(fieldLabel("Notes", false) + "\n" + padTextareaView(w.notes.View(), notesPadding))
	}

	add("")
	add(w.actions())
	if status := w.statusLine(); status != "" {
		add(status)
	}

	body := strings.Join(parts, "\n")
	if dropdown != "" {
		body = overlay(body, dropdown, 0, dropY)
	}
	return body
}

func (w Wizard) textField(label string, required bool, input string, focused bool, errText string) string {
	out := fieldLabel(label, required) + "\n" +
		styleInput(focused, errText != "").Width(fieldWidth-2).Render(input)
	if errText != "" {
		out += "\n" + styleFieldError().Render(errText)
	}
	return out
}

func (w Wizard) employeeIDField() string {
	var value string
	switch {
	case w.generatingID:
		value = w.spinner.View() + " " + styleInfo().Render("Generating...")
	case w.form1.EmployeeID != "":
		value = styleID().Render(w.form1.EmployeeID)
	default:
		value = styleMuted().Render("Auto-generated")
	}
	return fieldLabel("Employee ID", false) + "\n" +
		styleInput(false, false).Width(fieldWidth-2).Render(value)
}

func (w Wizard) imageField() string {
	out := w.textField("Profile Image", false, w.imagePath.View(), w.focus == s2Image, w.FieldError(domain.FieldImage))
	if w.imagePreview != "" {
		out += "\n" + w.imagePreview
	} else if w.form2.ImagePath == "" {
		out += "\n" + styleMuted().Render("JPEG or PNG, optional")
	}
	return out
}

func (w Wizard) actions() string {
	var buttons []string
	if w.step == stepDetails {
		buttons = append(buttons, styleButton(false, w.submitting).Render("Back"))
	}
	if w.HasDraft() {
		buttons = append(buttons, styleButton(false, false).Render("Clear"))
	}
	label := "Next"
	if w.step == stepDetails {
		label = "Submit"
		if w.submitting {
			label = "Submitting..."
		}
	}
	buttons = append(buttons, styleButton(true, !w.CanAdvance()).Render(label))
	return strings.Join(buttons, " ")
}

func (w Wizard) statusLine() string {
	var parts []string
	if w.submitting {
		parts = append(parts, w.spinner.View())
	}
	if w.submitErr != "" {
		parts = append(parts, styleFieldError().Render(w.submitErr))
	}
	if at := w.savedAt[w.draftKey()]; !at.IsZero() {
		parts = append(parts, styleSuccess().Render("Draft saved "+humanize.RelTime(at, w.now(), "ago", "from now")))
	}
	return strings.Join(parts, "  ")
}

func imagePreview(dataURL string) string {
	preview, err := avatar.PreviewDataURL(dataURL, 12)
	if err != nil {
		return ""
	}
	return preview
}
