package coach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTag(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want string
	}{
		{"simple", "<FOCUS>sleep</FOCUS>", "FOCUS", "sleep"},
		{"trimmed", "<FOCUS>\n  sleep \n</FOCUS>", "FOCUS", "sleep"},
		{"lower case tags", "<feedback>x</feedback>", "FEEDBACK", "x"},
		{"mixed case", "<FeedBack>x</fEEDBACK>", "feedback", "x"},
		{"multiline", "<FEEDBACK>line one\nline two</FEEDBACK>", "FEEDBACK", "line one\nline two"},
		{"first match wins", "<FOCUS>mood</FOCUS><FOCUS>sleep</FOCUS>", "FOCUS", "mood"},
		{"non-greedy", "<FOCUS>mood</FOCUS> and </FOCUS>", "FOCUS", "mood"},
		{"missing", "no tags here", "FOCUS", ""},
		{"unclosed", "<FOCUS>sleep", "FOCUS", ""},
		{"empty", "<FOCUS></FOCUS>", "FOCUS", ""},
		{"surrounded", "Sure!\n<FOCUS>exercise</FOCUS>\nBye", "FOCUS", "exercise"},
		{"regexp chars in tag", "<a.b>ok</a.b><axb>no</axb>", "a.b", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTag(tt.text, tt.tag))
		})
	}
}

func TestExtractTagRoundTrip(t *testing.T) {
	for _, s := range []string{"", "x", "  padded  ", "multi\nline\n", "tabs\tand ümlauts", "<b>nested</b>"} {
		for _, tag := range []string{"FEEDBACK", "FOCUS", "note"} {
			raw := "<" + tag + ">" + s + "</" + tag + ">"
			assert.Equal(t, strings.TrimSpace(s), ExtractTag(raw, tag), "tag %s content %q", tag, s)
		}
	}
}

func TestParseReply(t *testing.T) {
	t.Run("tagged", func(t *testing.T) {
		got := ParseReply("<FEEDBACK>Great job!</FEEDBACK>\n<FOCUS>hydration</FOCUS>")
		assert.Equal(t, Reply{Feedback: "Great job!", Focus: "hydration"}, got)
	})

	t.Run("no tags", func(t *testing.T) {
		got := ParseReply("no tags here")
		assert.Equal(t, Reply{Feedback: "no tags here", Focus: NoFocus}, got)
	})

	t.Run("feedback missing keeps whole reply", func(t *testing.T) {
		raw := "  You slept well.\n<FOCUS>sleep</FOCUS>  "
		got := ParseReply(raw)
		assert.Equal(t, "You slept well.\n<FOCUS>sleep</FOCUS>", got.Feedback)
		assert.Equal(t, "sleep", got.Focus)
	})

	t.Run("focus missing", func(t *testing.T) {
		got := ParseReply("<feedback>\nKeep going.\n</feedback>")
		assert.Equal(t, "Keep going.", got.Feedback)
		assert.Equal(t, NoFocus, got.Focus)
	})

	t.Run("focus outside closed set is kept", func(t *testing.T) {
		got := ParseReply("<FEEDBACK>ok</FEEDBACK><FOCUS>Cardio</FOCUS>")
		assert.Equal(t, "Cardio", got.Focus)
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t,
			ParseReply("<FEEDBACK>x</FEEDBACK><FOCUS>mood</FOCUS>"),
			ParseReply("<feedback>x</feedback><focus>mood</focus>"))
	})
}

func TestReplyFullFeedback(t *testing.T) {
	r := Reply{Feedback: "Nice walk today.", Focus: "sleep"}
	assert.Equal(t, "Nice walk today.\n\nWe suggest you focus on: sleep", r.FullFeedback())
}
