package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &MockMessageWriter{}
	p := newKafkaPublisher(w, discardLogger())

	rec := RoundRecord{
		Kind:     KindRoundCorrect,
		RoomCode: "7F2Q",
		Round:    1,
		Nickname: "Bob",
		Word:     "pizza",
		At:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "7F2Q" {
			return false
		}
		var got RoundRecord
		if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
			return false
		}
		return got.Kind == KindRoundCorrect && got.Word == "pizza" && got.Nickname == "Bob"
	})).Return(nil).Once()

	require.NoError(t, p.Publish(context.Background(), rec))
	w.AssertExpectations(t)
}

func TestKafkaPublisher_PublishWrapsWriterError(t *testing.T) {
	w := &MockMessageWriter{}
	p := newKafkaPublisher(w, discardLogger())
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(assert.AnError)

	err := p.Publish(context.Background(), RoundRecord{Kind: KindRoomCreated, RoomCode: "ABCD"})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &MockMessageWriter{}
	p := newKafkaPublisher(w, discardLogger())
	w.On("Close").Return(nil).Once()

	assert.NoError(t, p.Close())
	w.AssertExpectations(t)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), RoundRecord{}))
	assert.NoError(t, p.Close())
}
