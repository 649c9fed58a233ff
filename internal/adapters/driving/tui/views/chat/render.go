package chat

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

const timestampLayout = "15:04"

// renderConversation lays out every message followed by the unanswered question, if any.
func renderConversation(s *styles.Styles, msgs []domain.Message, pending string, width int) string {
	bodyWidth := width - 4
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	blocks := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		blocks = append(blocks, renderMessage(s, msg, bodyWidth))
	}
	if pending != "" {
		blocks = append(blocks, renderMessage(s, domain.Message{Sender: domain.SenderUser, Content: pending}, bodyWidth))
	}
	return strings.Join(blocks, "\n\n")
}

// renderSuggestions lists the canned questions offered before the first one is asked.
func renderSuggestions(s *styles.Styles, suggestions []domain.SuggestedQuestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	lines := []string{s.Muted.Render("Suggested questions")}
	for i, q := range suggestions {
		lines = append(lines, s.Detail.Render(fmt.Sprintf("%d. %s", i+1, q.Text)))
	}
	return strings.Join(lines, "\n")
}

func hasQuestion(msgs []domain.Message) bool {
	for _, msg := range msgs {
		if msg.Sender == domain.SenderUser {
			return true
		}
	}
	return false
}

func renderMessage(s *styles.Styles, msg domain.Message, width int) string {
	var b strings.Builder

	speaker, body := "You", s.UserMessage
	if msg.Sender == domain.SenderAI {
		speaker, body = "Insightly", s.AIMessage
	}
	b.WriteString(s.Speaker.Render(speaker))
	if !msg.Timestamp.IsZero() {
		b.WriteString(" " + s.Muted.Render(msg.Timestamp.Local().Format(timestampLayout)))
	}
	b.WriteString("\n")
	b.WriteString(body.Width(width).Render(msg.Content))

	for i, line := range detailLines(msg) {
		style := s.Detail
		if i < len(msg.Metrics) {
			switch msg.Metrics[i].Trend {
			case domain.TrendUp:
				style = s.Rise
			case domain.TrendDown:
				style = s.Fall
			}
		}
		b.WriteString("\n")
		b.WriteString(style.Render(line))
	}
	return b.String()
}

// detailLines lists the metrics, citations, charts and confidence of an answer.
// Metric lines come first, one per metric.
func detailLines(msg domain.Message) []string {
	var lines []string
	for _, m := range msg.Metrics {
		line := "• " + m.FormatValue() + trend(m)
		if m.Context != "" {
			line += " - " + m.Context
		}
		lines = append(lines, line)
	}
	for _, c := range msg.Citations {
		ref := fmt.Sprintf("p.%d", c.Page)
		if c.Section != "" {
			ref += " " + c.Section
		}
		lines = append(lines, fmt.Sprintf("↳ %s: %q", ref, c.Text))
	}
	for _, c := range msg.Charts {
		lines = append(lines, "▤ "+c.Summary())
	}
	if msg.Confidence != nil {
		lines = append(lines, fmt.Sprintf("Confidence %.0f%%", *msg.Confidence*100))
	}
	return lines
}

func trend(m domain.Metric) string {
	var arrow string
	switch m.Trend {
	case domain.TrendUp:
		arrow = " ↑"
	case domain.TrendDown:
		arrow = " ↓"
	}
	if m.ChangePercentage != nil {
		return fmt.Sprintf("%s %+.1f%%", arrow, *m.ChangePercentage)
	}
	return arrow
}
