package consumer

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func framed(schemaID int, payload string) []byte {
	value := make([]byte, 5+len(payload))
	value[0] = 0
	binary.BigEndian.PutUint32(value[1:5], uint32(schemaID))
	copy(value[5:], payload)
	return value
}

func record(offset int64, eventType string, value []byte) kafka.Message {
	return kafka.Message{
		Topic:     "competition_events",
		Partition: 0,
		Offset:    offset,
		Time:      time.Now().UTC(),
		Value:     value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "user_id", Value: []byte("user-1")},
			{Key: "schema_subject", Value: []byte("competition_events-finalized-value")},
		},
	}
}

func TestProcessorCommitsOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload := `{"competition_id":"abc"}`
	reader := &stubReader{
		messages: []kafka.Message{record(10, "competition.finalized", framed(42, payload))},
		after:    contextCanceled,
	}
	handler := &stubHandler{}

	before := testutil.ToFloat64(messagesTotal.WithLabelValues("competition_events", "competition.finalized", outcomeProcessed))
	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, "competition.finalized", handler.last.EventType)
	require.Equal(t, "user-1", handler.last.UserID)
	require.Equal(t, "competition_events-finalized-value", handler.last.SchemaSubject)
	require.Equal(t, 42, handler.last.SchemaID)
	require.JSONEq(t, payload, string(handler.last.Payload))
	require.InDelta(t, before+1, testutil.ToFloat64(messagesTotal.WithLabelValues("competition_events", "competition.finalized", outcomeProcessed)), 0.0001)
}

func TestProcessorSkipsCommitWhileHandlerFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{
		messages: []kafka.Message{record(20, "competition.player_invited", framed(99, `{"competition_id":"def"}`))},
		after:    contextCanceled,
	}
	handler := &stubHandler{err: errors.New("boom")}
	handler.onCall = func() {
		if handler.calls == 3 {
			cancel()
		}
	}

	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)), WithRetryDelay(time.Millisecond))

	err := processor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 3, handler.calls)
	require.Equal(t, []int64{20, 20, 20}, handler.offsets)
	require.Zero(t, reader.commitCalls)
	require.Equal(t, 1, reader.index, "no later record is fetched while the failing one is pending")
}

func TestProcessorRetriesFailedMessageBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{
		messages: []kafka.Message{
			record(1, "competition.player_invited", framed(99, `{"competition_id":"a"}`)),
			record(2, "competition.finalized", framed(42, `{"competition_id":"b"}`)),
		},
		after: contextCanceled,
	}
	handler := &stubHandler{err: errors.New("resend unavailable"), failures: 1}

	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)), WithRetryDelay(time.Millisecond))
	require.ErrorIs(t, processor.Run(ctx), context.Canceled)

	require.Equal(t, []int64{1, 1, 2}, handler.offsets)
	require.Equal(t, []int64{1, 2}, reader.committed)
}

func TestProcessorCommitsMalformedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	missingHeader := record(1, "weight.logged", framed(1, `{}`))
	missingHeader.Headers = nil

	reader := &stubReader{
		messages: []kafka.Message{
			record(0, "weight.logged", []byte{0, 1}),
			missingHeader,
			record(2, "weight.logged", framed(1, `not json`)),
			record(3, "weight.logged", append([]byte{1}, framed(1, `{}`)[1:]...)),
		},
		after: contextCanceled,
	}
	handler := &stubHandler{}

	before := testutil.ToFloat64(messagesTotal.WithLabelValues("competition_events", "unknown", outcomeDecodeError))
	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)))

	require.ErrorIs(t, processor.Run(ctx), context.Canceled)
	require.Zero(t, handler.calls)
	require.Equal(t, 4, reader.commitCalls)
	require.InDelta(t, before+4, testutil.ToFloat64(messagesTotal.WithLabelValues("competition_events", "unknown", outcomeDecodeError)), 0.0001)
}

func TestProcessorRetriesAfterFetchError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &stubReader{
		fetchErrs: []error{errors.New("broker unavailable")},
		messages:  []kafka.Message{record(5, "goal.completed", framed(3, `{"goal_id":"g1"}`))},
		after:     contextCanceled,
	}
	handler := &stubHandler{}

	processor := NewProcessor(reader, handler, WithLogger(zaptest.NewLogger(t)), WithRetryDelay(time.Millisecond))
	require.ErrorIs(t, processor.Run(ctx), context.Canceled)
	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
}

func TestChainRunsEveryHandler(t *testing.T) {
	first := &stubHandler{err: errors.New("first failed")}
	second := &stubHandler{}

	err := Chain{first, second}.Handle(context.Background(), Message{EventType: "weight.logged"})
	require.ErrorContains(t, err, "first failed")
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)

	require.NoError(t, Chain{HandlerFunc(func(context.Context, Message) error { return nil })}.Handle(context.Background(), Message{}))
}

type stubReader struct {
	fetchErrs   []error
	messages    []kafka.Message
	index       int
	commitCalls int
	committed   []int64
	after       func() error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if r.index >= len(r.messages) {
		if r.after != nil {
			return kafka.Message{}, r.after()
		}
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.commitCalls++
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *stubReader) Close() error { return nil }

func contextCanceled() error { return context.Canceled }

// stubHandler returns err on every call, or only on the first failures calls when failures > 0.
type stubHandler struct {
	calls    int
	err      error
	failures int
	last     Message
	offsets  []int64
	onCall   func()
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	h.offsets = append(h.offsets, msg.Offset)
	if h.onCall != nil {
		h.onCall()
	}
	if h.failures > 0 && h.calls > h.failures {
		return nil
	}
	return h.err
}
