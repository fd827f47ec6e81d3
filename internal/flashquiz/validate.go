package flashquiz

import (
	"fmt"
	"strings"
)

// Validate checks a candidate image and per-card drafts before a game may
// start. Every card is checked so all problems are reported together; the
// configuration is acceptable iff the result is empty.
func Validate(imageSource string, drafts []Quiz) []string {
	var errs []string
	if imageSource == "" {
		errs = append(errs, "Please upload or enter an image")
	}
	for i, q := range drafts {
		card := i + 1
		if q == nil {
			errs = append(errs, fmt.Sprintf("Card %d: Question is required", card))
			continue
		}
		if strings.TrimSpace(q.Prompt()) == "" {
			errs = append(errs, fmt.Sprintf("Card %d: Question is required", card))
		}
		switch q := q.(type) {
		case *MultipleChoice:
			if anyAnswer(q.Answers, func(a Answer) bool { return strings.TrimSpace(a.Text) == "" }) {
				errs = append(errs, fmt.Sprintf("Card %d: All answers must be filled", card))
			}
			if !anyAnswer(q.Answers, func(a Answer) bool { return a.IsCorrect }) {
				errs = append(errs, fmt.Sprintf("Card %d: Select a correct answer", card))
			}
		case *Media:
			if len(q.Sources) == 0 {
				errs = append(errs, fmt.Sprintf("Card %d: Add at least one media source", card))
			}
		default:
			panic(fmt.Sprintf("flashquiz: unhandled quiz %T", q))
		}
	}
	return errs
}

// CheckShape enforces the structural rules an editor keeps while drafting:
// the card count range, at least two answers with at most one correct and
// unique ids, a known media kind and its source limit. It is separate from
// Validate, which only judges completeness.
func CheckShape(drafts []Quiz) []string {
	var errs []string
	if n := len(drafts); n < MinCards || n > MaxCards {
		errs = append(errs, fmt.Sprintf("Use between %d and %d cards", MinCards, MaxCards))
	}
	for i, q := range drafts {
		card := i + 1
		switch q := q.(type) {
		case nil:
			errs = append(errs, fmt.Sprintf("Card %d: Quiz is missing", card))
		case *MultipleChoice:
			if len(q.Answers) < 2 {
				errs = append(errs, fmt.Sprintf("Card %d: At least two answers are required", card))
			}
			correct := 0
			seen := make(map[string]struct{}, len(q.Answers))
			dup := false
			for _, a := range q.Answers {
				if a.IsCorrect {
					correct++
				}
				if _, ok := seen[a.ID]; ok || a.ID == "" {
					dup = true
				}
				seen[a.ID] = struct{}{}
			}
			if correct > 1 {
				errs = append(errs, fmt.Sprintf("Card %d: Only one answer can be correct", card))
			}
			if dup {
				errs = append(errs, fmt.Sprintf("Card %d: Answer ids must be unique and non-empty", card))
			}
		case *Media:
			switch q.MediaKind {
			case MediaVideo, MediaImages:
				if len(q.Sources) > q.MaxSources() {
					errs = append(errs, fmt.Sprintf("Card %d: At most %d %s source(s) allowed", card, q.MaxSources(), q.MediaKind))
				}
			default:
				errs = append(errs, fmt.Sprintf("Card %d: Media type must be video or images", card))
			}
		default:
			panic(fmt.Sprintf("flashquiz: unhandled quiz %T", q))
		}
	}
	return errs
}

func anyAnswer(answers []Answer, pred func(Answer) bool) bool {
	for _, a := range answers {
		if pred(a) {
			return true
		}
	}
	return false
}
