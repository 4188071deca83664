package litquiz

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

var (
	// ErrMissingChapterID is returned when a request names no chapter.
	ErrMissingChapterID = errors.New("no chapter ID provided")
	// ErrMissingCredential is returned when a request carries no credential.
	ErrMissingCredential = errors.New("no API key provided")
	// ErrUnknownChapter is returned when the chapter is not in the catalog.
	ErrUnknownChapter = errors.New("unknown chapter")
	// ErrInvalidCredential is the client-side shape check failure.
	ErrInvalidCredential = errors.New("invalid API key format")

	// ErrQuotaExceeded marks quota and rate limit failures.
	ErrQuotaExceeded = errors.New("model quota exceeded")
	// ErrModelUnavailable marks models that do not exist or returned nothing.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrNoUsableModel is returned when every candidate answered with empty text.
	ErrNoUsableModel = errors.New("no usable model")
	// ErrNoModels is returned when the chain has no candidates configured.
	ErrNoModels = errors.New("no candidate models configured")

	// ErrParse is returned when no quiz could be extracted from a response.
	ErrParse = errors.New("could not parse quiz data from response")
	// ErrNoQuestions is returned when a parsed quiz holds zero questions.
	ErrNoQuestions = errors.New("quiz contains no questions")
	// ErrMalformedQuestion is returned for a question without exactly four
	// options or with a correct index outside them.
	ErrMalformedQuestion = errors.New("malformed question")
)

// GenerationFailedMessage is the only failure text shown to end users.
const GenerationFailedMessage = "Failed to generate quiz. Check your API key or quota."

// TransientModelError is a failure the fallback chain recovers from by moving
// on to the next candidate. Kind is ErrQuotaExceeded or ErrModelUnavailable.
type TransientModelError struct {
	Model string
	Kind  error
	Err   error
}

func (e *TransientModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Model, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Model, e.Kind, e.Err)
}

func (e *TransientModelError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FatalModelError aborts the fallback chain.
type FatalModelError struct {
	Model string
	Err   error
}

func (e *FatalModelError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *FatalModelError) Unwrap() error {
	return e.Err
}

// ClassifyModelError maps a backend failure to ErrQuotaExceeded or
// ErrModelUnavailable. It returns nil for failures that must not be retried
// on another model.
func ClassifyModelError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return ErrQuotaExceeded
	}
	if errors.Is(err, ErrModelUnavailable) {
		return ErrModelUnavailable
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if kind := classifyStatus(gErr.Code); kind != nil {
			return kind
		}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if kind := classifyStatus(apiErr.HTTPCode()); kind != nil {
			return kind
		}
		if st := apiErr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.ResourceExhausted:
				return ErrQuotaExceeded
			case codes.NotFound:
				return ErrModelUnavailable
			}
		}
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		if kind := classifyStatus(oaiErr.HTTPStatusCode); kind != nil {
			return kind
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if kind := classifyStatus(reqErr.HTTPStatusCode); kind != nil {
			return kind
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return ErrQuotaExceeded
	case strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist"):
		return ErrModelUnavailable
	}
	return nil
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrQuotaExceeded
	case http.StatusNotFound:
		return ErrModelUnavailable
	}
	return nil
}
