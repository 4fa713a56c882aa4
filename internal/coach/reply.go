package coach

import (
	"regexp"
	"strings"
)

// NoFocus is the focus reported when the model reply has no FOCUS tag.
const NoFocus = "none specified"

const (
	feedbackTag = "FEEDBACK"
	focusTag    = "FOCUS"
)

// Reply is a model response split into its two tagged parts.
type Reply struct {
	Feedback string `json:"feedback"`
	Focus    string `json:"focus"`
}

// FullFeedback is the text shown to the user after a check-in.
func (r Reply) FullFeedback() string {
	return r.Feedback + "\n\nWe suggest you focus on: " + r.Focus
}

// ExtractTag returns the trimmed content of the first <tag>...</tag> pair in
// text, matching the tag name case-insensitively. Content may span lines.
// It returns "" when there is no such pair.
func ExtractTag(text, tag string) string {
	name := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?is)<` + name + `>(.*?)</` + name + `>`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ParseReply splits a raw model reply. A reply without a FEEDBACK block is
// kept whole as feedback; one without a FOCUS block gets NoFocus. The focus
// is not checked against FocusAreas.
func ParseReply(raw string) Reply {
	feedback := ExtractTag(raw, feedbackTag)
	if feedback == "" {
		feedback = strings.TrimSpace(raw)
	}
	focus := ExtractTag(raw, focusTag)
	if focus == "" {
		focus = NoFocus
	}
	return Reply{Feedback: feedback, Focus: focus}
}
