package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"stockroom-api/internal/ai"
	"stockroom-api/internal/middleware"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/response"
)

// DefaultAIMaxBodyBytes bounds POST /api/ai bodies when no limit is configured.
const DefaultAIMaxBodyBytes = 1 << 20

// AIHandler serves the task dispatcher.
type AIHandler struct {
	dispatcher   *ai.Dispatcher
	maxBodyBytes int64
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(dispatcher *ai.Dispatcher, maxBodyBytes int64) *AIHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultAIMaxBodyBytes
	}
	return &AIHandler{dispatcher: dispatcher, maxBodyBytes: maxBodyBytes}
}

// Dispatch handles POST /api/ai. Responses are plain text; chat replies are
// streamed as they are generated.
func (h *AIHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TextError(w, apierror.PayloadTooLarge(""))
			return
		}
		response.TextError(w, apierror.BadRequest("failed to read request body"))
		return
	}

	task, err := ai.Parse(body)
	if err != nil {
		response.TextError(w, toAPIError(err))
		return
	}

	stream := &textStream{w: w}
	if err := h.dispatcher.Run(r.Context(), task, stream.write); err != nil {
		if stream.started {
			// Headers are gone; cut the connection so the client sees an
			// incomplete body instead of a clean end of stream.
			log.Printf("[AIHandler] %s stream aborted rid=%s: %v", task.Kind(), middleware.GetRequestID(r.Context()), err)
			panic(http.ErrAbortHandler)
		}
		response.TextError(w, toAPIError(err))
		return
	}

	if !stream.started {
		response.Text(w, http.StatusOK, "")
	}
}

// textStream commits a 200 text/plain response on the first chunk and
// flushes after each one.
type textStream struct {
	w       http.ResponseWriter
	started bool
}

func (s *textStream) write(chunk string) error {
	if !s.started {
		s.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.w.Header().Set("X-Content-Type-Options", "nosniff")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if _, err := io.WriteString(s.w, chunk); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
