package ai

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Observer receives one record per dispatched task.
type Observer interface {
	ObserveTask(kind Kind, outcome string, elapsed time.Duration)
}

// Outcomes reported to the Observer.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
	OutcomeAborted      = "aborted"
)

// Dispatcher routes validated tasks to the text generator. Each task is
// attempted exactly once.
type Dispatcher struct {
	gen      Generator
	timeout  time.Duration
	observer Observer
}

// NewDispatcher creates a dispatcher. A zero timeout means the request
// context alone bounds each call; observer may be nil.
func NewDispatcher(gen Generator, timeout time.Duration, observer Observer) *Dispatcher {
	return &Dispatcher{gen: gen, timeout: timeout, observer: observer}
}

// Run executes t and hands the generated text to emit: chunk by chunk for
// chat, once for every other task. Generation failures come back as
// *ExternalError; an error from emit is returned as is.
func (d *Dispatcher) Run(ctx context.Context, t Task, emit func(chunk string) error) error {
	p, err := buildPrompt(t)
	if err != nil {
		return err
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	var emitErr error
	opts := []llms.CallOption{}
	if t.Kind() == KindChat {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			if err := emit(string(chunk)); err != nil {
				emitErr = err
				return err
			}
			return nil
		}))
	}

	resp, err := d.gen.GenerateContent(ctx, messagesFor(p), opts...)
	switch {
	case emitErr != nil:
		d.observe(t.Kind(), OutcomeAborted, start)
		return emitErr
	case err != nil:
		mapped := classify(err)
		outcome := OutcomeError
		if mapped.Kind == FailureUnauthorized {
			outcome = OutcomeUnauthorized
		}
		d.observe(t.Kind(), outcome, start)
		log.Printf("[Dispatcher] %s failed: %v", t.Kind(), err)
		return mapped
	}

	d.observe(t.Kind(), OutcomeOK, start)
	if t.Kind() == KindChat {
		return nil
	}
	text, err := firstChoice(resp)
	if err != nil {
		log.Printf("[Dispatcher] %s: %v", t.Kind(), err)
		return &ExternalError{Kind: FailureServer, Err: err}
	}
	return emit(text)
}

// Text executes t and returns the complete generated text.
func (d *Dispatcher) Text(ctx context.Context, t Task) (string, error) {
	var b strings.Builder
	err := d.Run(ctx, t, func(chunk string) error {
		b.WriteString(chunk)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *Dispatcher) observe(kind Kind, outcome string, start time.Time) {
	if d.observer != nil {
		d.observer.ObserveTask(kind, outcome, time.Since(start))
	}
}

func messagesFor(p prompt) []llms.MessageContent {
	msgs := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, p.system)}
	if p.history == nil {
		return append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, p.user))
	}
	for _, m := range p.history {
		var role llms.ChatMessageType
		switch m.Role {
		case "assistant":
			role = llms.ChatMessageTypeAI
		case "system":
			role = llms.ChatMessageTypeSystem
		default:
			role = llms.ChatMessageTypeHuman
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}
	return msgs
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

// IsClientError reports whether err is a request validation failure.
func IsClientError(err error) bool {
	var missing *MissingFieldError
	return errors.Is(err, ErrInvalidTask) || errors.Is(err, ErrMalformedRequest) || errors.As(err, &missing)
}
