package models

const (
	NumPeriods      = 9
	ExamInfoSection = "Exam Information"
	CorpusName      = "AP US History CED"

	WordRegex         = `[\p{L}\p{N}_]+`
	SubsectionRegex   = `^[A-Z][A-Za-z\s]+:`
	SentenceEndRegex  = `[.!?]\s+`
	PeriodTitleRegex  = `Period \d+:\s*[^\n.!?]{1,80}`
	PeriodFileRegex   = `p(\d+)`
	ControlCharsRegex = `[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x{ff}]`
	GluedWordsRegex   = `([a-z])([A-Z])`
	PunctSpaceRegex   = `([.,!?])([A-Za-z])`
	SpacesRegex       = `\s+`
	XMLTagRegex       = `<[^>]+>`

	// Practice question section labels
	QuestionLabel    = "QUESTION:"
	OptionsLabel     = "OPTIONS:"
	AnswerLabel      = "ANSWER:"
	ExplanationLabel = "EXPLANATION:"
	ContextLabel     = "HISTORICAL CONTEXT:"
	RelevanceLabel   = "AP RELEVANCE:"

	DifficultyPrefix = "User has shown difficulty with:"
)

// ExamKeywords switch on the exam-info boost when any of them occurs in a query
var ExamKeywords = []string{"exam", "test", "score", "grading", "rubric", "format", "multiple choice", "dbq", "saq", "leq"}

// APPeriods lists the nine course periods in order
var APPeriods = []string{
	"Period 1 (1491-1607): Native American Societies and European Exploration",
	"Period 2 (1607-1754): Colonial America",
	"Period 3 (1754-1800): The American Revolution",
	"Period 4 (1800-1848): Early Republic and Expansion",
	"Period 5 (1844-1877): Civil War and Reconstruction",
	"Period 6 (1865-1898): Industrialization and Gilded Age",
	"Period 7 (1890-1945): Progressive Era and World Wars",
	"Period 8 (1945-1980): Cold War and Civil Rights",
	"Period 9 (1980-Present): Modern America",
}

var (
	TutorSystemPrompt    = "You are an AP US History expert tutor helping students prepare for the AP exam"
	PatternSystemPrompt  = "You are an AP US History expert identifying learning patterns"
	QuestionSystemPrompt = "You are an AP US History expert creating exam-style questions"
	HintSystemPrompt     = "You are an AP US History teacher providing hints"
	FeedbackSystemPrompt = "You are an AP US History teacher providing concise feedback"
	ProblemsSystemPrompt = "You are an AP US History expert identifying relevant practice problems and learning patterns"

	ContextPromptTemplate = `Use the following course material when it is relevant to the question.

%s`

	LearningsPromptTemplate = `Relevant past learnings to consider:
%s`

	RelevantMemoryPromptTemplate = `User query: %s
Past interactions and practice: %s

Identify any patterns of difficulty or learning gaps from past interactions that are relevant to this query
Only include insights if they show a clear pattern of misunderstanding or difficulty
Format as: "User has shown difficulty with: [specific concept/pattern]"
If no relevant patterns found, return empty string
`

	InteractionPatternPromptTemplate = `Question: %s
Response: %s
Feedback: %s

Identify if this interaction shows a clear pattern of difficulty or misunderstanding
If yes, format as: "User has shown difficulty with: [specific concept/pattern]"
If no clear pattern, return empty string
`

	ProblemPatternPromptTemplate = `Question: %s
Period: %s
Correct Answer: %s

Identify if this practice question reveals any learning patterns or difficulties
If yes, format as: "User has shown difficulty with: [specific concept/pattern]"
If no clear pattern, return empty string
`

	RelevantProblemsPromptTemplate = `Current period: %s

Past practice problems and interactions:
%s

Based on the current period, which previous practice problems and learning patterns are most relevant?
Provide a concise summary of relevant problems and learning patterns
`

	QuestionPromptTemplate = `Generate an AP US History practice question for %s%s

Question type: %s

For multiple choice questions, include:
1. The question
2. Four possible answer options (A, B, C, D)
3. The correct answer
4. Brief explanation (2-3 sentences)
5. Key historical context (1-2 sentences)
6. AP exam relevance (1 sentence)

Format the response as:
QUESTION:
[question text]

OPTIONS:
A) [first option]
B) [second option]
C) [third option]
D) [fourth option]

ANSWER:
[correct answer letter]

EXPLANATION:
[brief explanation]

HISTORICAL CONTEXT:
[key context]

AP RELEVANCE:
[exam relevance]
`

	HintPromptTemplate = `AP US History Question: %s
Period: %s
Topic: %s

Provide a brief, focused hint (1-2 sentences) that guides the student without giving away the solution
`

	FeedbackPromptTemplate = `AP US History Question: %s
Period: %s
Topic: %s
Student's selected option: %s
Correct answer: %s

Provide brief, focused feedback (2-3 sentences) that:
1. Acknowledges what was correct (if anything)
2. Points out one key area for improvement
3. Includes one specific tip for AP exam success
`
)
