package anthropic_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/chat"
	"github.com/fwojciec/chat/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseResponse is a helper to build SSE responses for tests.
type sseResponse struct {
	events []sseEvent
}

type sseEvent struct {
	event string
	data  string
}

func (s sseResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, evt := range s.events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.event, evt.data)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

var (
	evtMessageStart = sseEvent{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-20250514","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":1}}}`}
	evtBlockStart   = sseEvent{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`}
	evtBlockStop    = sseEvent{"content_block_stop", `{"type":"content_block_stop","index":0}`}
	evtMessageDelta = sseEvent{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":5}}`}
	evtMessageStop  = sseEvent{"message_stop", `{"type":"message_stop"}`}
)

func textDelta(text string) sseEvent {
	return sseEvent{"content_block_delta", fmt.Sprintf(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":%q}}`, text)}
}

// textStreamResponse returns a simple text streaming SSE response.
func textStreamResponse() sseResponse {
	return sseResponse{events: []sseEvent{
		evtMessageStart,
		evtBlockStart,
		{"ping", `{"type":"ping"}`},
		textDelta("Hello"),
		textDelta(" world"),
		evtBlockStop,
		evtMessageDelta,
		evtMessageStop,
	}}
}

func streamFromSSE(t *testing.T, resp sseResponse) chat.Stream {
	t.Helper()
	srv := httptest.NewServer(resp.handler())
	t.Cleanup(srv.Close)
	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), chat.Request{
		Messages: []chat.Turn{{Role: chat.RoleUser, Content: "Hi"}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { stream.Close() })
	return stream
}

func collectFragments(t *testing.T, s chat.Stream) []string {
	t.Helper()
	var fragments []string
	for {
		f, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		fragments = append(fragments, f)
	}
	return fragments
}

func TestStream_TextResponse(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())
	assert.Equal(t, chat.StreamStateNew, s.State())

	fragments := collectFragments(t, s)

	assert.Equal(t, []string{"Hello", " world"}, fragments)
	assert.Equal(t, chat.StreamStateComplete, s.State())

	_, err := s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStream_IgnoresNonTextDeltas(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, sseResponse{events: []sseEvent{
		evtMessageStart,
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"thinking","thinking":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"hmm"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"signature_delta","signature":"abc"}}`},
		evtBlockStop,
		{"content_block_start", `{"type":"content_block_start","index":1,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"answer"}}`},
		{"some_future_event", `{"type":"some_future_event"}`},
		evtMessageStop,
	}})

	assert.Equal(t, []string{"answer"}, collectFragments(t, s))
}

func TestStream_ErrorEvent(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, sseResponse{events: []sseEvent{
		evtMessageStart,
		evtBlockStart,
		textDelta("partial"),
		{"error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`},
	}})

	f, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "partial", f)

	_, err = s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Overloaded")
	assert.Equal(t, chat.ErrCodeServerError, chat.ProviderErrorCode(err))
	assert.Equal(t, chat.StreamStateError, s.State())

	// Terminal error is sticky.
	_, err2 := s.Next()
	assert.Equal(t, err, err2)
}

func TestStream_UnexpectedEOF(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, sseResponse{events: []sseEvent{
		evtMessageStart,
		evtBlockStart,
		textDelta("cut"),
	}})

	f, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "cut", f)

	_, err = s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of stream")
	assert.Equal(t, chat.StreamStateError, s.State())
}

func TestStream_CloseBeforeComplete(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())

	_, err := s.Next()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, chat.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, chat.ErrStreamClosed)
}

func TestStream_CloseAfterCompleteKeepsState(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())
	collectFragments(t, s)

	require.NoError(t, s.Close())
	assert.Equal(t, chat.StreamStateComplete, s.State())
}
