package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gcbaptista/coursexp/internal/view"
	"github.com/gcbaptista/coursexp/model"
)

const (
	ellipsis      = "…"
	endOfListText = "end of list"
	noResultsText = "no results"
)

// renderRow fits course and professor into width terminal cells. The
// score is never cut.
func renderRow(review model.Review, focused bool, width int) string {
	course, professor := review.Course, review.Professor
	if width > 0 {
		course = runewidth.Truncate(course, max(width/2, 8), ellipsis)
		professor = runewidth.Truncate(professor, max(width/3, 6), ellipsis)
	}
	line := fmt.Sprintf("%s  %s  %s",
		course,
		mutedStyle.Render(professor),
		scoreStyle.Render(displayScore(review.ProfessorScore)))
	if focused {
		return cursorRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}

func displayScore(score string) string {
	if strings.TrimSpace(score) == "" {
		return model.UnknownScore
	}
	return score
}

func renderDetail(review model.Review, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Course:"), review.Course)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Professor:"), review.Professor)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Professor score:"), displayScore(review.ProfessorScore))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Student score:"), displayScore(review.StudentScore))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Link:"), mutedStyle.Render(review.Link))
	if width > 0 {
		b.WriteString(wordwrap.String(review.Text, width))
	} else {
		b.WriteString(review.Text)
	}
	return b.String()
}

// statusLine describes the list state shown under the results.
func statusLine(snapshot view.Snapshot, lastUpdate string) string {
	var state string
	switch {
	case snapshot.NoResults:
		state = noResultsText
	case snapshot.EndOfList:
		state = fmt.Sprintf("%d results, %s", snapshot.Total, endOfListText)
	default:
		state = fmt.Sprintf("%d of %d results", len(snapshot.Page), snapshot.Total)
		if snapshot.GrowPending {
			state += ", loading more"
		}
	}
	return fmt.Sprintf("%s  ·  last update %s", state, lastUpdate)
}
