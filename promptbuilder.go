package litquiz

import (
	"fmt"
	"strings"
)

// Prompt is the instruction sent to a model together with the output
// contract the response must follow.
type Prompt struct {
	Instruction string
	Contract    string
}

// String returns the full text sent to the model
func (p Prompt) String() string {
	return p.Instruction + "\n" + p.Contract
}

const systemInstruction = "You are an expert CBSE Class 10 English teacher. You write accurate multiple choice questions with exactly 4 options each and reply with JSON only."

var poetryFocus = []string{
	"POETIC DEVICES: Identify metaphors, similes, personification, alliteration, anaphora, imagery, symbolism, rhyme scheme from the actual poem text",
	"DEEP MEANINGS: Central theme, poet's message based on the actual content",
	"LINE-BY-LINE ANALYSIS: Important lines from the poem and their meanings",
	"KEYWORDS: Important vocabulary from the chapter and their significance",
	"POET'S INTENT: What the poet wants to convey",
	"TONE & MOOD: The overall feeling of the poem",
	"SYMBOLISM: What different elements represent",
	"EXTRACT-BASED: Questions on specific stanzas/lines from the poem",
	"PYQ PATTERNS: If PYQ content is provided, create similar style questions",
}

var narrativeFocus = []string{
	"CHARACTER SKETCHES: Traits, nature, role of each character AS DESCRIBED in the chapter",
	"PLOT EVENTS: Important incidents from the actual chapter content",
	"THEMES & MORALS: Central message and life lessons from the story",
	"KEYWORDS: Important vocabulary, phrases from the chapter",
	"AUTHOR'S PURPOSE: What the author wants to convey",
	"IMPORTANT QUOTES: Significant lines from the chapter and who said them",
	"SETTINGS: Where and when the story takes place",
	"CONFLICTS: Main problems and their resolutions",
	"FACTUAL DETAILS: Names, places, specific events from the chapter",
	"LONG ANSWER KEYWORDS: Convert key points of long answers into keyword-based MCQs",
	"PYQ PATTERNS: If PYQ content is provided, create similar style questions",
}

// BuildPrompt assembles the generation prompt for a chapter
func BuildPrompt(chapter ChapterRef, ref ReferenceText, questionCount int) Prompt {
	var sb strings.Builder

	focus := narrativeFocus
	if chapter.Category == CategoryPoetry {
		focus = poetryFocus
		sb.WriteString(fmt.Sprintf("Generate exactly %d MCQ questions for the poem(s): %q from the book %q.\n\n", questionCount, chapter.Name, chapter.Collection))
	} else {
		sb.WriteString(fmt.Sprintf("Generate exactly %d MCQ questions for the chapter: %q from the book %q.\n\n", questionCount, chapter.Name, chapter.Collection))
	}

	sb.WriteString(referenceSection(ref))

	sb.WriteString("IMPORTANT: Use the above chapter content and PYQ questions as PRIMARY REFERENCE to create accurate MCQs.\n")
	sb.WriteString("Cover ALL of these aspects thoroughly:\n")
	for i, item := range focus {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}

	sb.WriteString("\nFor each question, create 4 options where:\n")
	sb.WriteString("- One is clearly and unambiguously correct\n")
	sb.WriteString("- The other three are plausible but incorrect distractors\n")

	return Prompt{
		Instruction: sb.String(),
		Contract:    outputContract(questionCount),
	}
}

func referenceSection(ref ReferenceText) string {
	var sb strings.Builder
	if ref.BookExcerpt != "" {
		sb.WriteString("=== CHAPTER CONTENT FROM NCERT BOOK ===\n")
		sb.WriteString(ref.BookExcerpt)
		sb.WriteString("\n=== END OF CHAPTER CONTENT ===\n\n")
	}
	if ref.PriorQuestions != "" {
		sb.WriteString("=== PREVIOUS YEAR QUESTIONS (LITERATURE SECTION) ===\n")
		sb.WriteString(ref.PriorQuestions)
		sb.WriteString("\n=== END OF PYQ CONTENT ===\n\n")
	}
	return sb.String()
}

func outputContract(questionCount int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Return ONLY valid JSON with a \"questions\" list of exactly %d items in this exact format:\n", questionCount))
	sb.WriteString(`{
    "questions": [
        {
            "id": 1,
            "question": "Question text here?",
            "options": ["Option A", "Option B", "Option C", "Option D"],
            "correct": 0,
            "explanation": "Brief explanation of why this is correct and key takeaway",
            "keyword": "Important keyword to remember from this question"
        }
    ]
}
`)
	sb.WriteString("\"correct\" is the 0-based index of the correct option.\n")
	return sb.String()
}
