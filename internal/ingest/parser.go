// Package ingest turns posts of the review channel into dataset records and
// appends the new ones to the dataset document.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gcbaptista/coursexp/model"
)

// Posts that do not carry one of these headings are not reviews.
var postIndicators = []string{"📚نام درس", "🟡درس"}

// digit matches ASCII, Persian and Arabic-Indic digits; scores keep the glyphs
// they were written with.
const digit = `[0-9۰-۹٠-٩]`

var (
	courseMarker        = regexp.MustCompile(`(?:📚|🟡)\s*(?:نام\s+)?درس\s*[:：]?\s*`)
	professorMarker     = regexp.MustCompile(`(?:🧑‍🏫|🔵)\s*(?:نام\s+استاد\s+مربوطه|استاد)\s*[:：]?\s*`)
	studentScoreMarker  = regexp.MustCompile(`(?:🧮|🟢)\s*(?:نمره|نمرتون)\s*[:：]?\s*`)
	professorScoreBlock = regexp.MustCompile(`❓\s*نمره ی شما به استاد`)
	professorScoreEnd   = regexp.MustCompile(`\n\s*(?:💬|🔴|🆔|$)`)
	scaleHint           = regexp.MustCompile(`\(.*?` + digit + `+.*?` + digit + `+.*?\)`)
	narrativeMarker     = regexp.MustCompile(`(?s)(?:💬|🔴)\s*(?:تجربه\s+شما|دیدگاه\s+شما|نظرتون|نظر).*?[:：]\s*`)
	narrativeRule       = regexp.MustCompile(`\n*-{5,}`)
	narrativeFooter     = regexp.MustCompile(`\n*لطفا\s+از\s+طریق`)
	narrativeNotice     = regexp.MustCompile(`\n*❗️توجه❗️`)
	number              = regexp.MustCompile(digit + `+(?:\.` + digit + `+)?`)
)

var (
	courseEnd       = []string{"\n", "🧮", "🟢", "🧑‍🏫", "🔵"}
	professorEnd    = []string{"\n", "❓", "💬", "🔴"}
	studentScoreEnd = []string{"\n", "🧑‍🏫", "🔵", "❓"}
)

// IsReviewPost reports whether text is laid out as a review.
func IsReviewPost(text string) bool {
	for _, indicator := range postIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// PostLink returns the public link of message messageID in channel.
func PostLink(channel string, messageID int64) string {
	return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(channel, "@"), messageID)
}

// ParsePost extracts a review from a channel post. The returned review has no
// ID yet. It reports false when the post is not a review or lacks a course or
// professor name.
func ParsePost(text string, messageID int64, channel string) (model.Review, bool) {
	if !IsReviewPost(text) {
		return model.Review{}, false
	}

	course, ok := fieldAfter(text, courseMarker, courseEnd)
	if !ok {
		return model.Review{}, false
	}
	professor, ok := fieldAfter(text, professorMarker, professorEnd)
	if !ok {
		return model.Review{}, false
	}

	return model.Review{
		Link:           PostLink(channel, messageID),
		Course:         cleanCourse(course),
		StudentScore:   studentScore(text),
		ProfessorScore: professorScore(text),
		Professor:      strings.TrimSpace(professor),
		Text:           narrative(text),
	}, true
}

// fieldAfter returns the text following the first match of marker, up to the
// nearest terminator or the end of text.
func fieldAfter(text string, marker *regexp.Regexp, terminators []string) (string, bool) {
	loc := marker.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return cutAtFirst(text[loc[1]:], terminators), true
}

func cutAtFirst(text string, terminators []string) string {
	end := len(text)
	for _, terminator := range terminators {
		if i := strings.Index(text, terminator); i >= 0 && i < end {
			end = i
		}
	}
	return text[:end]
}

// cutAtPattern cuts text at the earliest match of any pattern.
func cutAtPattern(text string, patterns ...*regexp.Regexp) string {
	end := len(text)
	for _, pattern := range patterns {
		if loc := pattern.FindStringIndex(text); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return text[:end]
}

func cleanCourse(course string) string {
	course = strings.NewReplacer("#", "", "_", " ").Replace(course)
	return strings.Join(strings.Fields(course), " ")
}

func firstNumber(text string) string {
	if found := number.FindString(text); found != "" {
		return found
	}
	return model.UnknownScore
}

func studentScore(text string) string {
	field, ok := fieldAfter(text, studentScoreMarker, studentScoreEnd)
	if !ok {
		return model.UnknownScore
	}
	return firstNumber(strings.TrimSpace(field))
}

// professorScore reads the first number of the professor-score block, after
// removing parenthesized scale hints such as "(از ۱ تا ۲۰)".
func professorScore(text string) string {
	loc := professorScoreBlock.FindStringIndex(text)
	if loc == nil {
		return model.UnknownScore
	}
	end := professorScoreEnd.FindStringIndex(text[loc[1]:])
	if end == nil {
		return model.UnknownScore
	}
	block := text[loc[0] : loc[1]+end[0]]
	return firstNumber(scaleHint.ReplaceAllString(block, ""))
}

func narrative(text string) string {
	loc := narrativeMarker.FindStringIndex(text)
	if loc == nil {
		return model.NoNarrative
	}
	body := strings.TrimSpace(cutAtPattern(text[loc[1]:], narrativeRule, narrativeFooter))
	body = cutAtPattern(body, narrativeNotice)
	return strings.TrimRightFunc(body, unicode.IsSpace)
}
