package ai

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// fakeGenerator records calls and replays a scripted reply.
type fakeGenerator struct {
	mu       sync.Mutex
	calls    int
	messages [][]llms.MessageContent

	reply  string
	chunks []string
	err    error
	// errAfterChunks fails the call after streaming the chunks.
	errAfterChunks bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	f.calls++
	f.messages = append(f.messages, messages)
	f.mu.Unlock()

	if f.err != nil && !f.errAfterChunks {
		return nil, f.err
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}
	if opts.StreamingFunc != nil {
		for _, c := range f.chunks {
			if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textOf(m llms.MessageContent) string {
	if len(m.Parts) == 0 {
		return ""
	}
	if tc, ok := m.Parts[0].(llms.TextContent); ok {
		return tc.Text
	}
	return ""
}
