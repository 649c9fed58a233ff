// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

const dateLayout = "2006-01-02"

// DocumentList displays uploaded documents in a navigable list.
type DocumentList struct {
	documents []domain.Document
	currentID string
	selected  int
	styles    *styles.Styles
	width     int
	height    int
	now       func() time.Time
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
		now:    time.Now,
	}
}

// Init initialises the document list.
func (l *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the document list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No documents yet")
	}

	lines := make([]string, 0, len(l.documents)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(l.documents))), "")

	// Each document takes two lines.
	visible := (l.height - 4) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.documents) {
		end = len(l.documents)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderDocument(i, &l.documents[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *DocumentList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}
	marker := " "
	if doc.ID == l.currentID {
		marker = "*"
	}

	name := doc.Name
	if name == "" {
		name = "(unnamed)"
	}
	maxName := l.width - 8
	if maxName < 10 {
		maxName = 10
	}
	if len([]rune(name)) > maxName {
		name = string([]rune(name)[:maxName-3]) + "..."
	}

	title := indicator + marker + " " + name
	if index == l.selected {
		title = l.styles.Selected.Render(title)
	} else {
		title = l.styles.Normal.Render(title)
	}

	detail := fmt.Sprintf("      uploaded %s, %d messages, expires %s",
		doc.CreatedAt.Local().Format(dateLayout),
		len(doc.Messages),
		doc.ExpiresAt.Local().Format(dateLayout),
	)
	if expiringSoon(doc, l.now()) {
		return title + "\n" + l.styles.Warning.Render(detail)
	}
	return title + "\n" + l.styles.Muted.Render(detail)
}

// SetDocuments replaces the listed documents and marks the current one.
func (l *DocumentList) SetDocuments(docs []domain.Document, currentID string) {
	l.documents = docs
	l.currentID = currentID
	if l.selected >= len(docs) {
		l.selected = len(docs) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Documents returns the listed documents.
func (l *DocumentList) Documents() []domain.Document {
	return l.documents
}

// CurrentID returns the id marked as current.
func (l *DocumentList) CurrentID() string {
	return l.currentID
}

// Selected returns the index of the selected document.
func (l *DocumentList) Selected() int {
	return l.selected
}

// SelectedDocument returns the highlighted document, or nil if none.
func (l *DocumentList) SelectedDocument() *domain.Document {
	if len(l.documents) == 0 || l.selected < 0 || l.selected >= len(l.documents) {
		return nil
	}
	return &l.documents[l.selected]
}

// MoveUp moves selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.documents) == 0
}

// expiringSoon reports whether doc expires within three days.
func expiringSoon(doc *domain.Document, now time.Time) bool {
	return doc.ExpiresAt.Sub(now) < 72*time.Hour
}
