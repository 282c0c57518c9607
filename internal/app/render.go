package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystage/internal/app/services"
	"github.com/chmouel/lazystage/internal/models"
	"github.com/muesli/reflow/wrap"
)

// View renders the whole UI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.windowWidth == 0 {
		return "loading..."
	}

	switch m.focus {
	case focusDiff:
		return m.renderDiff()
	case focusCommitTitle, focusCommitDesc:
		return m.renderCommitEditor()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.focus == focusFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFileList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the toolbar with branch and bucket counts.
func (m *Model) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(m.windowWidth).
		Padding(0, 2)

	content := "Lazystage"
	if m.branch != "" {
		content = fmt.Sprintf("%s  %s", content, m.branch)
	}
	if m.ahead > 0 || m.behind > 0 {
		content = fmt.Sprintf("%s ↑%d ↓%d", content, m.ahead, m.behind)
	}
	content = fmt.Sprintf("%s  [%d untracked, %d unstaged, %d staged]",
		content, m.counts.Untracked, m.counts.Unstaged, m.counts.Staged)
	return headerStyle.Render(content)
}

func (m *Model) bucketTitle(bucket models.Bucket) string {
	switch bucket {
	case models.BucketUntracked:
		return "Untracked files"
	case models.BucketStaged:
		return "Staged changes"
	default:
		return "Unstaged changes"
	}
}

func (m *Model) fileColor(color models.ColorClass) lipgloss.Color {
	switch color {
	case models.ColorConflict:
		return m.theme.FileConflict
	case models.ColorDeleted:
		return m.theme.FileDeleted
	case models.ColorUntracked:
		return m.theme.FileUntracked
	case models.ColorAdded:
		return m.theme.FileAdded
	default:
		return m.theme.TextFg
	}
}

// fileIcon resolves the devicon for a record, caching it on the record
// handle so icon lookup happens once per file, not once per frame.
func (m *Model) fileIcon(rec *services.FileRecord) string {
	if !m.config.ShowIcons {
		return ""
	}
	if icon, ok := rec.Handle.(string); ok {
		return icon
	}
	icon := deviconForName(rec.Path, false)
	rec.Handle = icon
	return icon
}

func (m *Model) renderFileList() string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.theme.MutedFg).
			Padding(1, 2).
			Render("Working tree clean, nothing to stage")
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	selectedStyle := lipgloss.NewStyle().Background(m.theme.AccentDim)

	var lines []string
	for i, r := range m.rows {
		if r.kind == rowHeader {
			lines = append(lines, headerStyle.Render("▸ "+m.bucketTitle(r.bucket)))
			continue
		}

		entryStyle := lipgloss.NewStyle().Foreground(m.fileColor(r.rec.Color))
		line := "    " + iconWithSpace(m.fileIcon(r.rec)) + r.rec.Path
		if r.rec.IsConflict {
			line += " (conflicts)"
		}
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render(entryStyle.Render(line)))
		} else {
			lines = append(lines, entryStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusLine() string {
	if m.confirmMessage != "" {
		return lipgloss.NewStyle().
			Foreground(m.theme.WarnFg).
			Bold(true).
			Render(m.confirmMessage)
	}
	n, ok := m.notices.latest()
	if !ok {
		return ""
	}
	color := m.theme.MutedFg
	switch n.Severity {
	case "error":
		color = m.theme.ErrorFg
	case "warning":
		color = m.theme.WarnFg
	case "info":
		color = m.theme.SuccessFg
	}
	return lipgloss.NewStyle().Foreground(color).Render(
		wrap.String(n.Message, max(20, m.windowWidth-2)))
}

func (m *Model) renderKeyHint(key, label string) string {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Cyan).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	return keyStyle.Render(key) + labelStyle.Render(":"+label)
}

func (m *Model) renderFooter() string {
	hints := []string{
		m.renderKeyHint("space", "Stage/Unstage"),
		m.renderKeyHint("a", "Stage All"),
		m.renderKeyHint("d", "Diff"),
		m.renderKeyHint("c", "Commit"),
		m.renderKeyHint("A", "Amend"),
		m.renderKeyHint("x", "Discard"),
		m.renderKeyHint("/", "Filter"),
		m.renderKeyHint("r", "Refresh"),
		m.renderKeyHint("q", "Quit"),
	}
	return lipgloss.NewStyle().
		Width(m.windowWidth).
		Padding(0, 1).
		Render(strings.Join(hints, "  "))
}

func (m *Model) renderDiff() string {
	titleStyle := lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(m.windowWidth).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Diff: " + m.diffPath))
	b.WriteString("\n")
	b.WriteString(m.diff.View())
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		m.renderKeyHint("j/k", "Scroll"),
		m.renderKeyHint("q", "Back"),
	}, "  "))
	return b.String()
}

func (m *Model) renderCommitEditor() string {
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2).
		Width(max(40, m.windowWidth-4))

	title := "Commit"
	if m.amend {
		title = "Amend commit"
	}
	titleStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(m.desc.View())
	b.WriteString("\n\n")
	b.WriteString(strings.Join([]string{
		m.renderKeyHint("ctrl+s", "Commit"),
		m.renderKeyHint("tab", "Switch Field"),
		m.renderKeyHint("esc", "Cancel"),
	}, "  "))
	return borderStyle.Render(b.String())
}
