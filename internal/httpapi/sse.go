package httpapi

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/mock"
)

// serveStream writes the event channel out as server-sent events. Each delta
// becomes one chat.completion.chunk payload; the terminal sentinel becomes
// the literal [DONE] payload. It returns how many deltas were delivered and
// whether the stream ran to completion.
//
// A departed client cancels r.Context(), which stops the producer; this
// function then simply runs out of events.
func serveStream(w http.ResponseWriter, r *http.Request, id string, events <-chan mock.StreamEvent) (delivered int, completed bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return 0, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)

	for ev := range events {
		if ev.Done {
			if _, err := fmt.Fprint(bw, "data: [DONE]\n\n"); err != nil {
				return delivered, false
			}
			if err := bw.Flush(); err != nil {
				return delivered, false
			}
			flusher.Flush()
			completed = true
			continue
		}

		chunk := mock.StreamChunk{
			ID:     id,
			Object: "chat.completion.chunk",
			Choices: []mock.ChunkChoice{{
				Index: 0,
				Delta: mock.Delta{
					Role: "assistant",
					// Trailing space so concatenated deltas reproduce the
					// aggregated text.
					Content: ev.Unit.Text + " ",
				},
				FinishReason: nil,
			}},
		}

		if err := writeSSE(bw, chunk); err != nil {
			return delivered, false
		}
		if err := bw.Flush(); err != nil {
			return delivered, false
		}
		flusher.Flush()
		delivered++
	}

	return delivered, completed
}

func writeSSE(w *bufio.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	return nil
}
