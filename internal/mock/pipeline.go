package mock

import (
	"context"
	"strings"
	"time"
)

// streamBufferSize bounds how many stream events can be pending before the
// producer goroutine blocks on the consumer.
const streamBufferSize = 10

// Admitter gates the emission of each generated token. Consume blocks until
// n units of throughput have been granted.
type Admitter interface {
	Consume(n int)
}

// Unit is one generated token: a sequential index and its text fragment.
type Unit struct {
	Index int
	Text  string
}

// Pipeline lazily yields units 0..max-1, paying one admission unit before
// each. It is single-use and not safe for concurrent callers; every request
// owns its own pipeline.
type Pipeline struct {
	gate Admitter
	max  int
	next int
}

func NewPipeline(gate Admitter, maxUnits int) *Pipeline {
	return &Pipeline{gate: gate, max: maxUnits}
}

// Next blocks on the admission gate and yields the next unit, or reports
// false once maxUnits have been produced.
func (p *Pipeline) Next() (Unit, bool) {
	if p.next >= p.max {
		return Unit{}, false
	}

	p.gate.Consume(1)
	u := Unit{Index: p.next, Text: Fragment(p.next)}
	p.next++
	return u, true
}

// Complete drains a fresh pipeline synchronously and assembles the aggregated
// response. The caller blocks for however long admission takes; there is no
// timeout on this path.
func Complete(id string, req ChatRequest, maxTokens int, gate Admitter) ChatResponse {
	p := NewPipeline(gate, maxTokens)

	frags := make([]string, 0, maxTokens)
	for {
		u, ok := p.Next()
		if !ok {
			break
		}
		frags = append(frags, u.Text)
	}

	promptTokens := PromptTokens(req.Messages)
	return ChatResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Choices: []Choice{{
			Index: 0,
			Message: ChatMessage{
				Role:    "assistant",
				Content: strings.Join(frags, " "),
			},
			FinishReason: "stop",
		}},
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: maxTokens,
			TotalTokens:      promptTokens + maxTokens,
		},
	}
}

// StreamEvent is one event on a streaming response: either a content delta
// for a single unit, or the terminal sentinel (Done).
type StreamEvent struct {
	Unit Unit
	Done bool
}

// StartStream launches the generation goroutine and immediately returns its
// event channel. Exactly one Done event follows the last delta; the channel
// is closed when the goroutine ends.
//
// ctx cancellation stands in for a departed consumer (a failed send): the
// goroutine stops at the next send attempt, emits nothing further, and does
// not roll back admission units already drawn.
func StartStream(ctx context.Context, gate Admitter, maxUnits int) <-chan StreamEvent {
	ch := make(chan StreamEvent, streamBufferSize)

	go func() {
		defer close(ch)

		p := NewPipeline(gate, maxUnits)
		for {
			u, ok := p.Next()
			if !ok {
				break
			}
			select {
			case ch <- StreamEvent{Unit: u}:
			case <-ctx.Done():
				return
			}
		}

		select {
		case ch <- StreamEvent{Done: true}:
		case <-ctx.Done():
		}
	}()

	return ch
}
