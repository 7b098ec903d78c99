package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Review is a single course/professor experience as it appears in the dataset document.
// The JSON keys are the dataset's wire format and must not change.
type Review struct {
	ID             int    `json:"id"`
	Link           string `json:"Link"`
	Course         string `json:"course"`
	StudentScore   string `json:"Student_Score"`   // display only
	ProfessorScore string `json:"Professor_Score"` // may use Persian or Arabic-Indic digits
	Professor      string `json:"professor"`
	Text           string `json:"text"`
}

// LastUpdate is the separately maintained "last updated" marker document.
type LastUpdate struct {
	LastUpdate string `json:"last_update"`
}

// LastUpdatePlaceholder is shown while the marker is missing or unreadable.
const LastUpdatePlaceholder = "loading…"

// NoNarrative is stored when a post carries no experience text.
const NoNarrative = "بدون متن"

// UnknownScore is stored when a post carries no readable score.
const UnknownScore = "?"

// UnmarshalJSON accepts score fields written either as strings or as bare JSON
// numbers, so a hand-edited dataset never fails to load over a score.
func (r *Review) UnmarshalJSON(data []byte) error {
	type plain Review
	var aux struct {
		plain
		StudentScore   json.RawMessage `json:"Student_Score"`
		ProfessorScore json.RawMessage `json:"Professor_Score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Review(aux.plain)

	var err error
	if r.StudentScore, err = numeralText(aux.StudentScore); err != nil {
		return fmt.Errorf("Student_Score: %w", err)
	}
	if r.ProfessorScore, err = numeralText(aux.ProfessorScore); err != nil {
		return fmt.Errorf("Professor_Score: %w", err)
	}
	return nil
}

func numeralText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var text string
		err := json.Unmarshal(raw, &text)
		return text, err
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", err
	}
	return number.String(), nil
}
