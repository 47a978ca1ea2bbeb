package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "snappy")

	require.NoError(t, p.Publish(context.Background(), "astro.charts", []byte("id-1"), map[string]int{"n": 1}))
	require.NoError(t, p.PublishMessage(context.Background(), "astro.logs", "raw"))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "astro.charts", w.msgs[0].Topic)
	assert.Equal(t, []byte("id-1"), w.msgs[0].Key)
	var body map[string]int
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, 1, body["n"])

	assert.Nil(t, w.msgs[1].Key)
	assert.Equal(t, "raw", string(w.msgs[1].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, "snappy")

	err := p.Publish(context.Background(), "astro.charts", nil, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "astro.charts")
	assert.ErrorIs(t, err, w.err)
}

func TestPublishRejectsUnencodable(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{}, "snappy")
	err := p.Publish(context.Background(), "t", nil, make(chan int))
	assert.Error(t, err)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression(""))
}
