package tutor

// Fixed Arabic instruction templates. Each printf verb is substituted with
// student-supplied content at call time.

// titlePromptTmpl asks for an article title for the student's idea.
const titlePromptTmpl = `المستخدم كتب فكرة: "%s"
اقترح له عنوانًا جذابًا لمقال باللغة العربية.`

// ideaPromptTmpl turns the student's idea into an academic paragraph.
const ideaPromptTmpl = `المستخدم كتب فكرة: "%s"
اكتب له فقرة بلغة فصحى وأسلوب أكاديمي.`

// parsePromptTmpl asks for a full grammatical parse (إعراب) of the sentence.
const parsePromptTmpl = `المستخدم طلب إعراب الجملة:
"%s"
أعربها تفصيليًا وفسّر بلغة بسيطة.`

// explainPromptTmpl asks for a simple paragraph about a topic.
const explainPromptTmpl = `اكتب فقرة بسيطة حول: %s`

// exercisePromptTmpl generates a grammar exercise for a lesson at a given
// difficulty. The answer must not be included; it is generated separately
// when the student gives up.
const exercisePromptTmpl = `
اكتب تمرينًا نحويًا على درس "%s" بمستوى %s.
يجب أن يحتوي التمرين على:
- عنوان واضح
- صيغة السؤال
- من 2 إلى 3 جمل للطالب ليعربها أو يحدد عناصرها.
لا تضع الإجابة.
`

// modelAnswerPromptTmpl asks for the model answer to the pending exercise.
const modelAnswerPromptTmpl = `اكتب إجابة نموذجية لهذا السؤال من درس %s:
%s`

// evaluatePromptTmpl grades the student's answer. The verdict line must
// come first so the student immediately sees correct/incorrect.
const evaluatePromptTmpl = `
أنت مدقق نحوي محترف. المطلوب منك تقييم إجابة الطالب على السؤال التالي.
🔹 السؤال:
%s
🔹 إجابة الطالب:
%s
📌 التعليمات:
- ابدأ بـ "الإجابة: صحيحة." أو "الإجابة: خاطئة."
- ثم تعليل مختصر.
- لا تستخدم نبرة سلبية.
- لا تكرر نفس السؤال.
الآن قيّم:
`

// Exercise difficulty levels, inferred from keywords in the request.
const (
	difficultyHard   = "صعب"
	difficultyEasy   = "سهل"
	difficultyNormal = "عادي"
)
