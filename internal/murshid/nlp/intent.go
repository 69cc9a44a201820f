// Package nlp resolves a raw student message into a tutoring intent.
//
// Resolution is an explicit ordered rule chain:
//  1. Short-circuit rules — fixed Arabic text patterns (greeting, title
//     request, write-an-idea, grammatical parse) that bypass the model
//     classifier entirely.
//  2. Model classification — the generative model is asked to emit two
//     labelled lines ("intent: …" / "word: …") chosen from a closed set of
//     Arabic labels.
//  3. Override rules — state-dependent rewrites layered on top of the
//     classifier output: "I don't know" phrases force a model-answer
//     request, and free text from a student who has a pending exercise is
//     treated as an answer to it.
//
// The classifier never executes anything; it only labels. Dispatching on
// the resolved intent is the tutor package's job.
package nlp

// Intent is the coarse category of a student request.
type Intent string

const (
	// IntentMeaning asks for a word's meaning (meaning service, synonyms).
	IntentMeaning Intent = "meaning"
	// IntentPlural asks for a word's plural form (meaning service).
	IntentPlural Intent = "plural"
	// IntentAntonym asks for a word's antonym (meaning service).
	IntentAntonym Intent = "antonym"
	// IntentMorphology asks for word-structure analysis (morphology service).
	IntentMorphology Intent = "morphology"
	// IntentExplain asks for a short explanatory paragraph about a topic.
	IntentExplain Intent = "explain"
	// IntentParagraph asks for a written paragraph about a topic.
	IntentParagraph Intent = "paragraph"
	// IntentExercise asks for a generated grammar exercise.
	IntentExercise Intent = "exercise"
	// IntentEvaluate submits an answer to the pending exercise.
	IntentEvaluate Intent = "evaluate"

	// IntentGreeting is the greeting short-circuit.
	IntentGreeting Intent = "greeting"
	// IntentTitle is the article-title short-circuit.
	IntentTitle Intent = "title"
	// IntentIdea is the write-my-idea short-circuit (academic paragraph).
	IntentIdea Intent = "idea"
	// IntentParse is the grammatical-parse (إعراب) short-circuit.
	IntentParse Intent = "parse"

	// IntentModelAnswer requests the model answer for the pending exercise.
	IntentModelAnswer Intent = "model-answer"
	// IntentUnknown means no rule matched and classification failed or
	// produced an unrecognized label.
	IntentUnknown Intent = "unknown"
)

// Outcome distinguishes a usable classification from a failed one.
type Outcome int

const (
	// OutcomeOK means Intent and Topic are usable.
	OutcomeOK Outcome = iota
	// OutcomeFailed means the model output could not be parsed; Raw holds
	// the unparseable text for diagnostics. Intent is IntentUnknown.
	OutcomeFailed
)

// Classification is the typed result of intent resolution. Failure is an
// explicit variant rather than an implicit empty string, so downstream
// code can tell "the student asked for nothing recognizable" apart from
// "the classifier broke".
type Classification struct {
	Outcome Outcome
	Intent  Intent
	// Topic is the word, lesson name, or free text the intent applies to.
	Topic string
	// Raw is the unparsed model output, kept only when Outcome is
	// OutcomeFailed.
	Raw string
}

// HistoryTurn is one prior conversation turn injected into the
// classification prompt for continuity.
type HistoryTurn struct {
	Role    string // "user" or "assistant"
	Content string
}

// classifierLabels maps the closed set of Arabic labels the model is
// instructed to emit onto intents.
var classifierLabels = map[string]Intent{
	"معنى":        IntentMeaning,
	"جمع":         IntentPlural,
	"تضاد":        IntentAntonym,
	"شرح":         IntentExplain,
	"صرف":         IntentMorphology,
	"كتابة فقرة":  IntentParagraph,
	"سؤال تعليمي": IntentExercise,
	"تقييم إجابة": IntentEvaluate,
}

// ArabicLabel returns the Arabic label for intents that appear in student
// facing failure messages (meaning, plural, antonym). Returns "" for
// intents with no such label.
func ArabicLabel(i Intent) string {
	for label, intent := range classifierLabels {
		if intent == i {
			return label
		}
	}
	return ""
}

// newRequestIntents are the intents that count as a fresh content request.
// When a student has a pending exercise, only a message classified outside
// this set may be reinterpreted as an answer to it.
var newRequestIntents = map[Intent]struct{}{
	IntentMeaning:    {},
	IntentPlural:     {},
	IntentAntonym:    {},
	IntentExplain:    {},
	IntentMorphology: {},
	IntentExercise:   {},
	IntentParagraph:  {},
}

// isNewRequest reports whether the intent asks for new content rather than
// continuing the pending exercise.
func isNewRequest(i Intent) bool {
	_, ok := newRequestIntents[i]
	return ok
}
