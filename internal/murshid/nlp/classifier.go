package nlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/malakhossam/murshid/internal/murshid/llm"
)

// ErrRateLimited is returned by Resolve when the user has exhausted their
// per-minute classification quota. The caller should reply with a fixed
// slow-down message instead of calling the model.
var ErrRateLimited = errors.New("nlp: per-user rate limit exceeded")

// historyWindow is how many recent turns are prepended to the
// classification prompt for conversational continuity.
const historyWindow = 3

// classifyPromptTmpl is the fixed Arabic instruction template. The model
// must answer with exactly two labelled lines; anything else is treated as
// a parse failure.
const classifyPromptTmpl = `
حلل الجملة التالية وحدد:
- نوع الطلب: معنى / جمع / تضاد / شرح / صرف / كتابة فقرة / سؤال تعليمي / تقييم إجابة.
- الكلمة أو الدرس أو المحتوى.
الجملة:
"%s"
أجب فقط بهذا الشكل:
intent: ...
word: ...
`

// Classifier resolves student messages into intents using the rule chain
// described in the package documentation. It is safe for concurrent use.
type Classifier struct {
	gen     llm.Generator
	phrases *PhraseSets
	limiter *RateLimiter
}

// NewClassifier returns a Classifier backed by gen. phrases must not be
// nil; limiter may be nil to disable per-user rate limiting.
func NewClassifier(gen llm.Generator, phrases *PhraseSets, limiter *RateLimiter) *Classifier {
	return &Classifier{gen: gen, phrases: phrases, limiter: limiter}
}

// Phrases exposes the classifier's phrase sets so the dispatcher can reuse
// the same configured lists.
func (c *Classifier) Phrases() *PhraseSets {
	return c.phrases
}

// Resolve runs the full rule chain for one message.
//
// history should be the user's recent turns, oldest first; only the last
// three are used. hasPending reports whether the user currently has an
// unanswered generated exercise, which gates the implicit-answer override.
//
// The only error Resolve returns is ErrRateLimited. Model transport and
// parse failures are not errors here: they produce a Classification with
// Outcome OutcomeFailed (subject to the override rules), because a broken
// classifier must still yield a reply to the student.
func (c *Classifier) Resolve(ctx context.Context, userID, text string, history []HistoryTurn, hasPending bool) (Classification, error) {
	if sc, ok := c.phrases.ShortCircuit(text); ok {
		return sc, nil
	}

	if c.limiter != nil && !c.limiter.Allow(userID) {
		return Classification{}, ErrRateLimited
	}

	cls := c.classify(ctx, text, history)
	return c.phrases.Override(cls, text, hasPending), nil
}

// classify calls the model and parses its two-line answer.
func (c *Classifier) classify(ctx context.Context, text string, history []HistoryTurn) Classification {
	raw, err := c.gen.Generate(ctx, buildClassifyPrompt(text, history))
	if err != nil {
		slog.Warn("nlp: classification call failed", "err", err)
		return Classification{Outcome: OutcomeFailed, Intent: IntentUnknown}
	}
	return parseClassification(raw)
}

// buildClassifyPrompt prepends up to the last historyWindow turns to the
// instruction template.
func buildClassifyPrompt(text string, history []HistoryTurn) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf(classifyPromptTmpl, text))
	return sb.String()
}

// parseClassification locates the "intent:" and "word:" markers in the raw
// model output. A missing marker or an unrecognized label yields the
// Failed variant carrying the raw text.
func parseClassification(raw string) Classification {
	label, ok := extractAfter(raw, "intent:")
	if !ok {
		return Classification{Outcome: OutcomeFailed, Intent: IntentUnknown, Raw: raw}
	}
	topic, ok := extractRemainder(raw, "word:")
	if !ok {
		return Classification{Outcome: OutcomeFailed, Intent: IntentUnknown, Raw: raw}
	}

	intent, ok := classifierLabels[label]
	if !ok {
		slog.Debug("nlp: unrecognized intent label", "label", label)
		return Classification{Outcome: OutcomeFailed, Intent: IntentUnknown, Raw: raw}
	}
	return Classification{Intent: intent, Topic: topic}
}

// extractAfter returns the trimmed text between the first occurrence of
// marker and the end of that line. ok is false when the marker is absent
// or followed by nothing.
func extractAfter(raw, marker string) (string, bool) {
	_, rest, found := strings.Cut(raw, marker)
	if !found {
		return "", false
	}
	line, _, _ := strings.Cut(rest, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}

// extractRemainder returns everything after the first occurrence of
// marker, trimmed. The content may span multiple lines (a sentence or
// free text the intent applies to), so unlike extractAfter it does not
// stop at a newline.
func extractRemainder(raw, marker string) (string, bool) {
	_, rest, found := strings.Cut(raw, marker)
	if !found {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}
