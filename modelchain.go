package litquiz

import (
	"context"
	"errors"
	"log"
	"strings"
)

// Completion is the first usable response produced by a ModelChain
type Completion struct {
	Model string
	Text  string
}

// ModelChain tries candidate models in priority order until one returns
// usable text. Quota and availability failures move on to the next
// candidate; any other failure stops the chain.
type ModelChain struct {
	models []string
}

// NewModelChain creates a chain over the given candidates
func NewModelChain(models []string) *ModelChain {
	return &ModelChain{models: append([]string(nil), models...)}
}

// Models returns the candidates in the order they are tried
func (c *ModelChain) Models() []string {
	return append([]string(nil), c.models...)
}

// Execute runs prompt against the candidates one at a time. logger may be nil.
func (c *ModelChain) Execute(ctx context.Context, backend Backend, prompt string, logger *TranscriptLogger) (*Completion, error) {
	if len(c.models) == 0 {
		return nil, ErrNoModels
	}

	var lastErr error
	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		VerboseLog("Trying model: %s", model)
		if logger != nil {
			logger.LogLLMRequest(model, prompt)
		}

		text, err := backend.Generate(ctx, model, prompt)
		if err != nil {
			kind := ClassifyModelError(err)
			if kind == nil || ctx.Err() != nil {
				if logger != nil {
					logger.LogModelFailure(model, "fatal", err)
				}
				return nil, &FatalModelError{Model: model, Err: err}
			}
			lastErr = &TransientModelError{Model: model, Kind: kind, Err: err}
			if logger != nil {
				logger.LogModelFailure(model, "retrying next model", err)
			}
			if errors.Is(kind, ErrQuotaExceeded) {
				log.Printf("Quota exceeded for %s, trying next model...", model)
			} else {
				log.Printf("Model %s not available, trying next...", model)
			}
			continue
		}

		if strings.TrimSpace(text) == "" {
			if logger != nil {
				logger.LogModelFailure(model, "empty response", nil)
			}
			log.Printf("Model %s returned an empty response, trying next...", model)
			continue
		}

		if logger != nil {
			logger.LogLLMResponse(model, text)
		}
		log.Printf("Response received from %s, length: %d", model, len(text))
		return &Completion{Model: model, Text: text}, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoUsableModel
}
