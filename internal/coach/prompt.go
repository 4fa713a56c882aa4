package coach

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed templates/system_prompt.tmpl
var systemPromptTemplate string

//go:embed templates/user_prompt.tmpl
var userPromptTemplate string

// FocusAreas is the closed set of focus tokens the model is asked to choose from.
var FocusAreas = []string{"sleep", "hydration", "exercise", "mood", "nutrition"}

var (
	promptFuncs = template.FuncMap{
		"absent": func(v Value, token string) string { return v.Or(token) },
	}
	userPromptTmpl = template.Must(template.New("user_prompt").Funcs(promptFuncs).Parse(userPromptTemplate))
	systemPrompt   = render(template.Must(template.New("system_prompt").Parse(systemPromptTemplate)), struct {
		FocusChoices string
	}{focusChoices()})
)

type userPromptData struct {
	Profile      Profile
	Preferences  Preferences
	Goals        Goals
	Daily        DailyCheckIn
	Last         LastSuggestion
	FocusChoices string
}

func focusChoices() string {
	return strings.Join(FocusAreas, " | ")
}

// IsFocusArea reports whether s is one of FocusAreas, ignoring case and
// surrounding space.
func IsFocusArea(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, area := range FocusAreas {
		if s == area {
			return true
		}
	}
	return false
}

// BuildSystemPrompt returns the fixed instruction block: persona, safety
// constraints and the FEEDBACK/FOCUS output contract. It carries no user data.
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt renders the per-request message. Sections always appear in
// the same order and every field is shown, absent ones as their placeholder.
// Identical inputs produce identical output.
func BuildUserPrompt(daily DailyCheckIn, last LastSuggestion, profile Profile, preferences Preferences, goals Goals) string {
	return render(userPromptTmpl, userPromptData{
		Profile:      profile,
		Preferences:  preferences,
		Goals:        goals,
		Daily:        daily,
		Last:         last,
		FocusChoices: focusChoices(),
	})
}

// render executes a template whose data is plain strings. Execution can only
// fail on a template bug, which is a programming error.
func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic("coach: render " + tmpl.Name() + ": " + err.Error())
	}
	return strings.TrimSpace(buf.String())
}
