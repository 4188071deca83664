package litquiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// parseStrategy tries to decode a raw quiz from cleaned model output
type parseStrategy struct {
	Name  string
	Parse func(text string) (*rawQuiz, error)
}

var (
	fenceOpenPattern  = regexp.MustCompile("```[a-zA-Z]*\\s*")
	questionsObject   = regexp.MustCompile(`(?s)\{.*"questions".*\}`)
	defaultOptions    = []string{"Option A", "Option B", "Option C", "Option D"}
	defaultStrategies = []parseStrategy{
		{Name: "questions-object", Parse: parseQuestionsObject},
		{Name: "whole-text", Parse: parseWholeText},
	}
)

const (
	defaultExplanation = "Review this concept carefully."
	defaultKeyword     = "Important concept"
	optionsPerQuestion = 4
)

// rawQuiz mirrors the output contract loosely so that absent and malformed
// fields can be told apart during repair.
type rawQuiz struct {
	Questions []rawQuestion
}

type rawQuestion struct {
	ID          json.RawMessage `json:"id"`
	Question    json.RawMessage `json:"question"`
	Options     json.RawMessage `json:"options"`
	Correct     json.RawMessage `json:"correct"`
	Explanation json.RawMessage `json:"explanation"`
	Keyword     json.RawMessage `json:"keyword"`
}

// ExtractQuiz pulls a validated quiz out of free-form model output
func ExtractQuiz(response string) (*Quiz, error) {
	return extractWith(response, defaultStrategies)
}

func extractWith(response string, strategies []parseStrategy) (*Quiz, error) {
	cleaned := StripCodeFences(response)

	var lastErr error
	for _, strategy := range strategies {
		raw, err := strategy.Parse(cleaned)
		if err != nil {
			VerboseLog("Parse strategy %s failed: %v", strategy.Name, err)
			lastErr = err
			continue
		}
		if len(raw.Questions) == 0 {
			VerboseLog("Parse strategy %s found no questions", strategy.Name)
			lastErr = ErrNoQuestions
			continue
		}
		VerboseLog("Parse strategy %s produced %d questions", strategy.Name, len(raw.Questions))
		return &Quiz{Questions: repairQuestions(raw.Questions)}, nil
	}

	if lastErr == nil {
		return nil, ErrParse
	}
	return nil, fmt.Errorf("%w: %v", ErrParse, lastErr)
}

// StripCodeFences removes markdown code fence markers around a payload
func StripCodeFences(text string) string {
	text = fenceOpenPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func parseQuestionsObject(text string) (*rawQuiz, error) {
	match := questionsObject.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no object with a questions field")
	}
	return decodeRawQuiz(match)
}

func parseWholeText(text string) (*rawQuiz, error) {
	return decodeRawQuiz(strings.TrimSpace(text))
}

// decodeRawQuiz only requires a "questions" list; elements that are not
// objects are dropped so one bad entry does not cost the whole quiz.
func decodeRawQuiz(text string) (*rawQuiz, error) {
	var envelope struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, err
	}

	raw := &rawQuiz{Questions: make([]rawQuestion, 0, len(envelope.Questions))}
	for i, element := range envelope.Questions {
		if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
			VerboseLog("Dropping question %d: null", i+1)
			continue
		}
		var rq rawQuestion
		if err := json.Unmarshal(element, &rq); err != nil {
			VerboseLog("Dropping question %d: %v", i+1, err)
			continue
		}
		raw.Questions = append(raw.Questions, rq)
	}
	return raw, nil
}

func repairQuestions(raw []rawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for i, rq := range raw {
		questions = append(questions, repairQuestion(i, rq))
	}
	return questions
}

// repairQuestion normalises one question so that it always has four options
// and a correct index inside them.
func repairQuestion(pos int, rq rawQuestion) Question {
	q := Question{
		ID:          pos + 1,
		Text:        decodeString(rq.Question, ""),
		Explanation: decodeString(rq.Explanation, defaultExplanation),
		Keyword:     decodeString(rq.Keyword, defaultKeyword),
	}
	if id, ok := decodeInt(rq.ID); ok {
		q.ID = id
	}

	options, ok := decodeOptions(rq.Options)
	if !ok || len(options) < optionsPerQuestion {
		options = append([]string(nil), defaultOptions...)
	}
	q.Options = options[:optionsPerQuestion]

	if correct, ok := decodeInt(rq.Correct); ok {
		q.Correct = correct
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		q.Correct = 0
	}
	return q
}

// decodeInt accepts JSON numbers and numeric strings
func decodeInt(data json.RawMessage) (int, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if i, err := strconv.Atoi(n.String()); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f == float64(int(f)) {
			return int(f), true
		}
		return 0, false
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// decodeString returns fallback unless data is a JSON string
func decodeString(data json.RawMessage, fallback string) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fallback
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fallback
	}
	return s
}

func decodeOptions(data json.RawMessage) ([]string, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	var options []string
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, false
	}
	return options, true
}
