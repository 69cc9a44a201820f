package nlp

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixed keywords for the non-greeting short-circuits. These are part of
// the tutoring contract and are not configurable.
const (
	titleKeyword = "عنوان"
	ideaKeyword  = "فكرة"
	writeKeyword = "اكتب"
	parseKeyword = "أعرب"
)

// PhraseSets holds the configurable phrase lists the rule chain matches
// against. All matching is case-insensitive substring containment, which
// is deliberately loose: students type dialect, not canonical forms.
type PhraseSets struct {
	// Greetings trigger the canned welcome reply.
	Greetings []string `yaml:"greetings"`
	// UnknownAnswer phrases ("I don't know", …) force a model-answer
	// request for the pending exercise.
	UnknownAnswer []string `yaml:"unknown_answer"`
	// GeneralHelp phrases are excluded from the implicit-answer override
	// so a help request is never graded as an exercise answer.
	GeneralHelp []string `yaml:"general_help"`
}

// DefaultPhraseSets returns the built-in phrase lists.
func DefaultPhraseSets() *PhraseSets {
	return &PhraseSets{
		Greetings: []string{
			"مساء الخير", "صباح الخير", "السلام عليكم", "أهلا", "أهلاً",
			"هاي", "هلا", "إزيك", "مرحبا", "hello", "hi",
		},
		UnknownAnswer: []string{
			"لا أعرف", "لا ادري", "ما اعرف", "مش عارف", "ما هي الإجابة",
			"ما الإجابة", "إيه الإجابة", "معرفش", "ممكن الإجابة", "الإجابة إيه",
		},
		GeneralHelp: []string{
			"مساعدة", "help", "ايه", "إيه", "شو", "وش", "كيف",
		},
	}
}

// LoadPhraseSets reads a YAML phrase file and merges it over the defaults.
// A set present in the file replaces the default set wholesale; an absent
// or empty set keeps the default. An empty path returns the defaults.
func LoadPhraseSets(path string) (*PhraseSets, error) {
	sets := DefaultPhraseSets()
	if path == "" {
		return sets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nlp: read phrase file: %w", err)
	}
	var file PhraseSets
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("nlp: parse phrase file %s: %w", path, err)
	}

	if len(file.Greetings) > 0 {
		sets.Greetings = file.Greetings
	}
	if len(file.UnknownAnswer) > 0 {
		sets.UnknownAnswer = file.UnknownAnswer
	}
	if len(file.GeneralHelp) > 0 {
		sets.GeneralHelp = file.GeneralHelp
	}
	return sets, nil
}

// containsAny reports whether the lowercased text contains any of the
// phrases.
func containsAny(text string, phrases []string) bool {
	text = strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(text, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// IsGreeting reports whether text matches a greeting phrase.
func (p *PhraseSets) IsGreeting(text string) bool {
	return containsAny(text, p.Greetings)
}

// IsUnknownAnswer reports whether text matches an "I don't know" phrase.
func (p *PhraseSets) IsUnknownAnswer(text string) bool {
	return containsAny(text, p.UnknownAnswer)
}

// IsGeneralHelp reports whether text matches a general help phrase.
func (p *PhraseSets) IsGeneralHelp(text string) bool {
	return containsAny(text, p.GeneralHelp)
}

// ShortCircuit checks the fixed-priority pattern rules that bypass model
// classification. The order is part of the contract: greeting, then title
// suggestion, then write-an-idea, then grammatical parse.
func (p *PhraseSets) ShortCircuit(text string) (Classification, bool) {
	switch {
	case p.IsGreeting(text):
		return Classification{Intent: IntentGreeting, Topic: text}, true
	case strings.Contains(text, titleKeyword):
		return Classification{Intent: IntentTitle, Topic: text}, true
	case strings.Contains(text, ideaKeyword) && strings.Contains(text, writeKeyword):
		return Classification{Intent: IntentIdea, Topic: text}, true
	case strings.Contains(text, parseKeyword):
		return Classification{Intent: IntentParse, Topic: text}, true
	}
	return Classification{}, false
}

// Override applies the state-dependent rewrite rules, in order, on top of
// a model classification:
//
//  1. Unknown-answer phrases always force a model-answer request; this
//     outranks whatever the classifier said.
//  2. When the student has a pending exercise and the classified intent is
//     not a new content request and the text is not a general help phrase,
//     the message is treated as the exercise answer. Free-text answers
//     rarely match any request pattern, so the absence of a recognized
//     new-request intent is taken as evidence the student is answering.
func (p *PhraseSets) Override(cls Classification, text string, hasPending bool) Classification {
	if p.IsUnknownAnswer(text) {
		return Classification{Intent: IntentModelAnswer, Topic: text}
	}

	if hasPending && !isNewRequest(cls.Intent) && !p.IsGeneralHelp(text) {
		return Classification{Intent: IntentEvaluate, Topic: text}
	}

	return cls
}
