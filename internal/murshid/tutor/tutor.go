// Package tutor implements the dispatch core of Murshid: it takes a
// resolved intent plus the student's conversation state and produces the
// reply, driving the generative model, the two analysis services, and the
// pending-exercise state machine.
//
// The state machine is small: a student is either idle or has exactly one
// pending exercise. Generating an exercise fills the slot (overwriting any
// previous one); a successful evaluation or nothing else clears it. Every
// branch, success or failure, appends the exchange to conversation history
// and returns a student-facing Arabic reply — errors never propagate out
// of Handle.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/malakhossam/murshid/common/trace"
	"github.com/malakhossam/murshid/internal/murshid/llm"
	"github.com/malakhossam/murshid/internal/murshid/memory"
	"github.com/malakhossam/murshid/internal/murshid/nlp"
	"github.com/malakhossam/murshid/internal/murshid/services"
)

// classifierHistory is how many recent turns are handed to the classifier.
const classifierHistory = 3

// TurnRecord is one handled exchange, written to the audit log.
type TurnRecord struct {
	TraceID    string
	UserID     string
	Intent     string
	Outcome    string // "ok" or "failed"
	ReplyChars int
	Error      string // internal failure detail, empty on success
}

// Auditor records handled turns. Implementations must not block the
// request path for long; failures are logged and swallowed.
type Auditor interface {
	RecordTurn(ctx context.Context, rec TurnRecord) error
}

// Tutor wires the classifier, the conversation store, the generative
// model, and the analysis-service clients into the single Handle
// operation the HTTP layer calls.
type Tutor struct {
	gen        llm.Generator
	classifier *nlp.Classifier
	store      *memory.Store
	morphology *services.MorphologyClient
	meaning    *services.MeaningClient
	audit      Auditor // may be nil
}

// New creates a Tutor. audit may be nil to disable turn auditing.
func New(gen llm.Generator, classifier *nlp.Classifier, store *memory.Store,
	morphology *services.MorphologyClient, meaning *services.MeaningClient, audit Auditor) *Tutor {
	return &Tutor{
		gen:        gen,
		classifier: classifier,
		store:      store,
		morphology: morphology,
		meaning:    meaning,
		audit:      audit,
	}
}

// Handle processes one student message end to end and returns the reply.
// It never returns an error: every failure mode resolves to a fixed
// Arabic reply, and the exchange is always appended to the student's
// history.
func (t *Tutor) Handle(ctx context.Context, userID, message string) string {
	input := strings.TrimSpace(message)
	history := classifierTurns(t.store.Recent(userID, classifierHistory))
	hasPending := t.store.HasPending(userID)

	cls, err := t.classifier.Resolve(ctx, userID, input, history, hasPending)

	var reply, failure string
	intentLabel := string(cls.Intent)
	if errors.Is(err, nlp.ErrRateLimited) {
		reply = rateLimitedReply
		intentLabel = "rate-limited"
	} else {
		reply, failure = t.dispatch(ctx, userID, input, cls)
	}

	t.store.AppendExchange(userID, input, reply)
	t.recordTurn(ctx, userID, intentLabel, reply, failure)
	return reply
}

// dispatch maps the resolved intent to its action. It returns the reply
// plus an internal failure detail for the audit log (empty on success;
// missing-context branches are normal outcomes, not failures).
func (t *Tutor) dispatch(ctx context.Context, userID, input string, cls nlp.Classification) (reply, failure string) {
	switch cls.Intent {
	case nlp.IntentGreeting:
		return welcomeReply, ""

	case nlp.IntentTitle:
		return t.generate(ctx, fmt.Sprintf(titlePromptTmpl, input))

	case nlp.IntentIdea:
		return t.generate(ctx, fmt.Sprintf(ideaPromptTmpl, input))

	case nlp.IntentParse:
		return t.generate(ctx, fmt.Sprintf(parsePromptTmpl, input))

	case nlp.IntentModelAnswer:
		return t.handleModelAnswer(ctx, userID)

	case nlp.IntentParagraph, nlp.IntentExplain:
		return t.generate(ctx, fmt.Sprintf(explainPromptTmpl, cls.Topic))

	case nlp.IntentMorphology:
		return t.handleMorphology(ctx, cls.Topic)

	case nlp.IntentMeaning, nlp.IntentPlural, nlp.IntentAntonym:
		return t.handleMeaning(ctx, cls.Intent, cls.Topic)

	case nlp.IntentExercise:
		return t.handleExercise(ctx, userID, input, cls.Topic)

	case nlp.IntentEvaluate:
		return t.handleEvaluate(ctx, userID, cls.Topic)

	default:
		if cls.Outcome == nlp.OutcomeFailed {
			return unrecognizedReply, "classification failed: " + truncate(cls.Raw, 200)
		}
		return unrecognizedReply, ""
	}
}

// handleModelAnswer generates the model answer for the pending exercise.
// The pending slot is left in place so the student can still be evaluated
// or ask again.
func (t *Tutor) handleModelAnswer(ctx context.Context, userID string) (string, string) {
	pending, ok := t.store.Pending(userID)
	if !ok {
		return noQuestionForAnswerReply, ""
	}
	return t.generate(ctx, fmt.Sprintf(modelAnswerPromptTmpl, pending.Lesson, pending.Question))
}

// handleMorphology looks the word up in the morphology service and renders
// the first analysis record as field: value lines.
func (t *Tutor) handleMorphology(ctx context.Context, word string) (string, string) {
	analysis, err := t.morphology.Analyze(ctx, word)
	switch {
	case err == nil:
		return formatAnalysis(analysis), ""
	case errors.Is(err, services.ErrNoAnalysis):
		return morphologyNotFoundReply(word), ""
	case errors.Is(err, services.ErrUnavailable):
		return morphologyUnavailableReply(word), err.Error()
	default:
		return morphologyErrorReply(word), err.Error()
	}
}

// handleMeaning queries the meaning service with the lookup type mapped
// from the intent and returns the result verbatim.
func (t *Tutor) handleMeaning(ctx context.Context, intent nlp.Intent, word string) (string, string) {
	label := nlp.ArabicLabel(intent)
	lookupType := map[nlp.Intent]string{
		nlp.IntentMeaning: services.LookupSynonyms,
		nlp.IntentAntonym: services.LookupAntonyms,
		nlp.IntentPlural:  services.LookupPlural,
	}[intent]

	result, err := t.meaning.Lookup(ctx, word, lookupType)
	if err != nil {
		return meaningErrorReply(label, word), err.Error()
	}
	if result == "" {
		return meaningNotFoundReply(label, word), ""
	}
	return result, ""
}

// handleExercise generates a new exercise for the lesson and stores it as
// the pending question. The pending slot is only written when generation
// succeeded, so a failure never leaves a half-posed exercise.
func (t *Tutor) handleExercise(ctx context.Context, userID, input, lesson string) (string, string) {
	difficulty := inferDifficulty(input)
	reply, failure := t.generate(ctx, fmt.Sprintf(exercisePromptTmpl, lesson, difficulty))
	if failure == "" {
		t.store.SetPending(userID, lesson, reply)
	}
	return reply, failure
}

// handleEvaluate grades the student's answer against the pending exercise
// and clears the slot once the evaluation was produced. A generation
// failure keeps the exercise pending so the student can try again.
func (t *Tutor) handleEvaluate(ctx context.Context, userID, answer string) (string, string) {
	pending, ok := t.store.Pending(userID)
	if !ok {
		return noQuestionForEvalReply, ""
	}

	reply, failure := t.generate(ctx, fmt.Sprintf(evaluatePromptTmpl, pending.Question, answer))
	if failure == "" {
		t.store.ClearPending(userID)
	}
	return reply, failure
}

// generate runs a one-shot model generation, translating any failure into
// the fixed generation-failure reply.
func (t *Tutor) generate(ctx context.Context, prompt string) (string, string) {
	text, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("tutor: generation failed", "err", err)
		return generationFailedReply, err.Error()
	}
	return text, ""
}

// recordTurn writes the audit record, logging and swallowing failures.
func (t *Tutor) recordTurn(ctx context.Context, userID, intent, reply, failure string) {
	if t.audit == nil {
		return
	}
	outcome := "ok"
	if failure != "" {
		outcome = "failed"
	}
	rec := TurnRecord{
		TraceID:    trace.FromContext(ctx),
		UserID:     userID,
		Intent:     intent,
		Outcome:    outcome,
		ReplyChars: len([]rune(reply)),
		Error:      failure,
	}
	if err := t.audit.RecordTurn(ctx, rec); err != nil {
		slog.Warn("tutor: audit write failed", "err", err)
	}
}

// inferDifficulty picks the exercise difficulty from keywords in the
// request, defaulting to normal.
func inferDifficulty(input string) string {
	switch {
	case strings.Contains(input, difficultyHard):
		return difficultyHard
	case strings.Contains(input, difficultyEasy):
		return difficultyEasy
	default:
		return difficultyNormal
	}
}

// classifierTurns converts stored turns into the classifier's history type.
func classifierTurns(turns []memory.Turn) []nlp.HistoryTurn {
	out := make([]nlp.HistoryTurn, len(turns))
	for i, turn := range turns {
		out[i] = nlp.HistoryTurn{Role: turn.Role, Content: turn.Content}
	}
	return out
}

// truncate caps s at n runes for log and audit fields.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
