package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskpad/internal/config"
	"taskpad/internal/form"
	"taskpad/internal/store"
	"taskpad/internal/task"
	"taskpad/internal/view"
)

const dueLayout = "Jan 2, 2006"

func (m Model) View() string {
	var b strings.Builder
	counts := m.store.Counts()

	b.WriteString(m.renderHeader(counts))
	b.WriteString("\n\n")

	if counts.All > 0 {
		b.WriteString(m.renderProgress(counts))
		b.WriteString("\n\n")
		b.WriteString(m.renderFilterBar(counts))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTaskList())

	switch m.store.Mode().Kind {
	case store.ModeAdding, store.ModeEditing:
		if m.form != nil {
			b.WriteString("\n")
			b.WriteString(m.renderForm())
		}
	case store.ModeConfirmingDelete:
		b.WriteString("\n")
		b.WriteString(m.renderConfirm())
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderHeader(c view.Counts) string {
	left := titleStyle.Render("My Tasks") + "\n" + subtleStyle.Render("Stay focused. Ship it.")
	stats := fmt.Sprintf("%s Active   %s Done",
		statNumStyle.Render(fmt.Sprint(c.Active)),
		statNumStyle.Render(fmt.Sprint(c.Completed)))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", stats)
}

func (m Model) renderProgress(c view.Counts) string {
	return fmt.Sprintf("Progress %s %d%%", m.progress.ViewAs(c.Fraction()), c.Percent())
}

func (m Model) renderFilterBar(c view.Counts) string {
	tabs := make([]string, 0, len(task.Filters()))
	for _, f := range task.Filters() {
		label := fmt.Sprintf("%s (%d)", f.Label(), c.Of(f))
		if f == m.store.Filter() {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	sortLabel := subtleStyle.Render("sort: ") + m.store.Sort().Label()
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, "   ", sortLabel)...)
}

func (m Model) renderTaskList() string {
	tasks := m.visible()
	if len(tasks) == 0 {
		return emptyStyle.Render("✦ No tasks here.\nAdd one above to get started.")
	}
	now := m.now()
	var b strings.Builder
	for i, t := range tasks {
		b.WriteString(renderTaskItem(t, i == clampCursor(m.cursor, len(tasks)), view.IsOverdue(t, now)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTaskItem(t task.Task, selected, overdue bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	checkbox := "[ ]"
	name := t.Name
	if t.Completed {
		checkbox = "[x]"
		name = doneStyle.Render(name)
	}

	meta := []string{priorityBadge(t.Priority)}
	if t.HasDueDate() {
		due := t.DueDate.Format(dueLayout)
		if overdue {
			meta = append(meta, overdueStyle.Render("⚠ Overdue · "+due))
		} else {
			meta = append(meta, "due "+due)
		}
	}

	line := fmt.Sprintf("%s %s %s %s  %s", cursor, priorityBar(t.Priority), checkbox, name, strings.Join(meta, "  "))
	desc := fmt.Sprintf("      %s", subtleStyle.Render(t.Description))
	return line + "\n" + desc
}

func (m Model) renderForm() string {
	fm := m.form
	var b strings.Builder
	b.WriteString(titleStyle.Render(fm.title()))
	b.WriteString("\n\n")
	for i, f := range formFields {
		label := labelStyle.Render(fieldLabel(f))
		if i == fm.focus {
			label = focusedLabel.Render(fieldLabel(f))
		}
		b.WriteString(label)
		if f == form.FieldPriority {
			b.WriteString(renderPriorityPicker(fm.priority()))
		} else {
			b.WriteString(fm.inputs[f].View())
		}
		b.WriteString("\n")
		if msg := fm.state.Error(f); msg != "" {
			b.WriteString(labelStyle.Render(""))
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s: %s • %s: cancel", keyName(m.cfg.Keys.Confirm), fm.submitLabel(), keyName(m.cfg.Keys.Cancel))))
	return modalStyle.Render(b.String())
}

func renderPriorityPicker(current task.Priority) string {
	opts := make([]string, 0, len(task.Priorities()))
	for _, p := range task.Priorities() {
		if p == current {
			opts = append(opts, priorityStyle(p).Bold(true).Render("● "+p.Label()))
		} else {
			opts = append(opts, subtleStyle.Render("○ "+p.Label()))
		}
	}
	return strings.Join(opts, "  ")
}

func (m Model) renderConfirm() string {
	t, ok := m.store.Target()
	if !ok {
		return ""
	}
	body := titleStyle.Render("Delete Task") + "\n\n" +
		fmt.Sprintf("Delete %q? This cannot be undone.", t.Name) + "\n\n" +
		subtleStyle.Render("y: delete • n: cancel")
	return dangerModal.Render(body)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s filter • %s sort • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyName(k.Toggle), k.Delete, k.Filter, k.Sort, k.Quit)
}
