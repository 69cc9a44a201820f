package tutor

import (
	"fmt"
	"sort"
	"strings"
)

// Fixed student-facing replies. Tutoring-level failures always resolve to
// one of these; a raw error string never reaches the student.
const (
	welcomeReply = "👋 أهلاً وسهلاً! كيف يمكنني مساعدتك اليوم؟"

	// noQuestionForAnswerReply is returned when the student asks for the
	// model answer but no exercise is pending.
	noQuestionForAnswerReply = "❌ لم يتم تحديد السؤال الذي تريد إجابته. اطلب سؤالًا أولاً."

	// noQuestionForEvalReply is returned when an answer arrives with no
	// exercise pending.
	noQuestionForEvalReply = "❌ لم تقم بطلب سؤال بعد. اطلب سؤال أولًا مثلاً: اديني سؤال على درس كذا."

	// unrecognizedReply is the catch-all for failed or unknown
	// classifications.
	unrecognizedReply = "❌ لم أتعرف على نوع السؤال. جرب بصيغة أخرى."

	// generationFailedReply covers generative-model failures on any
	// direct generation path.
	generationFailedReply = "❌ حدث خطأ أثناء توليد الرد. حاول مرة أخرى."

	// rateLimitedReply is returned when the per-user classification quota
	// is exhausted.
	rateLimitedReply = "⏳ عدد كبير من الطلبات خلال وقت قصير. حاول مرة أخرى بعد قليل."
)

// morphologyUnavailableReply covers a non-success status from the
// morphology service. The word is embedded so the student sees which
// request failed.
func morphologyUnavailableReply(word string) string {
	return fmt.Sprintf("❌ لم أتمكن من الاتصال بخدمة التحليل الصرفي للكلمة: %s.", word)
}

// morphologyNotFoundReply is returned when the morphology service has no
// analysis for the word.
func morphologyNotFoundReply(word string) string {
	return fmt.Sprintf("❌ لم أجد التحليل الصرفي للكلمة: %s.", word)
}

// morphologyErrorReply covers transport-level morphology failures.
func morphologyErrorReply(word string) string {
	return fmt.Sprintf("❌ حدث خطأ أثناء جلب التحليل الصرفي للكلمة: %s.", word)
}

// meaningNotFoundReply is returned when the meaning service found nothing.
// label is the Arabic request label (معنى / جمع / تضاد).
func meaningNotFoundReply(label, word string) string {
	return fmt.Sprintf("❌ لم أجد %s للكلمة: %s.", label, word)
}

// meaningErrorReply covers meaning-service failures.
func meaningErrorReply(label, word string) string {
	return fmt.Sprintf("❌ حدث خطأ أثناء جلب %s للكلمة: %s.", label, word)
}

// formatAnalysis renders a morphology analysis record as "field: value"
// lines. Keys are sorted for deterministic output since JSON object order
// is not preserved.
func formatAnalysis(analysis map[string]any) string {
	keys := make([]string, 0, len(analysis))
	for k := range analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, analysis[k]))
	}
	return strings.Join(lines, "\n")
}
