package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/bus-maintenance/internal/models"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:          "snap-1",
		GeneratedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		BusCount:    2,
		DaysBack:    365,
		Events:      make([]models.MaintenanceEvent, 12),
		Summaries: []models.BusSummary{
			{BusID: "BUS-002", TotalCost: 900},
			{BusID: "BUS-001", TotalCost: 100},
		},
	}
}

func TestNewNotice(t *testing.T) {
	n := NewNotice(testSnapshot())
	assert.Equal(t, "snap-1", n.SnapshotID)
	assert.Equal(t, 2, n.BusCount)
	assert.Equal(t, 12, n.EventCount)
	assert.Equal(t, 1000.0, n.TotalCost)
	assert.Equal(t, "BUS-002", n.CostliestBus)

	empty := NewNotice(&models.Snapshot{ID: "empty"})
	assert.Empty(t, empty.CostliestBus)
}

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakePublisher struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
	err      error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic = topic
	p.qos = qos
	p.retained = retained
	p.payload, _ = payload.([]byte)
	return newFakeToken(p.err)
}

func TestMQTTNotifier_Notify(t *testing.T) {
	pub := &fakePublisher{}
	notifier := &MQTTNotifier{client: pub, topic: "fleet/test", qos: 1}

	err := notifier.Notify(context.Background(), NewNotice(testSnapshot()))
	require.NoError(t, err)
	assert.Equal(t, "fleet/test", pub.topic)
	assert.True(t, pub.retained)

	var decoded Notice
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, "snap-1", decoded.SnapshotID)
	assert.NoError(t, notifier.Close())
}

func TestMQTTNotifier_PublishError(t *testing.T) {
	notifier := &MQTTNotifier{client: &fakePublisher{err: errors.New("broker down")}, topic: "fleet/test"}
	err := notifier.Notify(context.Background(), NewNotice(testSnapshot()))
	assert.ErrorContains(t, err, "broker down")
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestKafkaNotifier_Notify(t *testing.T) {
	w := new(mockWriter)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Key) == "snap-1"
	})).Return(nil)
	w.On("Close").Return(nil)

	notifier := &KafkaNotifier{writer: w, topic: "fleet.test"}
	require.NoError(t, notifier.Notify(context.Background(), NewNotice(testSnapshot())))
	require.NoError(t, notifier.Close())
	w.AssertExpectations(t)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	w := new(mockWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("no leader"))

	notifier := &KafkaNotifier{writer: w, topic: "fleet.test"}
	err := notifier.Notify(context.Background(), NewNotice(testSnapshot()))
	assert.ErrorContains(t, err, "no leader")
}

func TestNewKafkaNotifier_Validation(t *testing.T) {
	_, err := NewKafkaNotifier(nil, "topic")
	assert.Error(t, err)
	_, err = NewKafkaNotifier([]string{"kafka:9092"}, "")
	assert.Error(t, err)

	n, err := NewKafkaNotifier([]string{"kafka:9092"}, "fleet.test")
	require.NoError(t, err)
	assert.NoError(t, n.Close())
}

type recordingNotifier struct {
	notices []Notice
	err     error
	closed  bool
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notice) error {
	r.notices = append(r.notices, n)
	return r.err
}

func (r *recordingNotifier) Close() error {
	r.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	ok := &recordingNotifier{}
	failing := &recordingNotifier{err: errors.New("unreachable")}
	m := Multi{failing, ok}

	err := m.Notify(context.Background(), NewNotice(testSnapshot()))
	assert.ErrorContains(t, err, "unreachable")
	assert.Len(t, ok.notices, 1)
	assert.Len(t, failing.notices, 1)

	assert.NoError(t, m.Close())
	assert.True(t, ok.closed)
	assert.True(t, failing.closed)

	assert.NoError(t, Multi(nil).Notify(context.Background(), Notice{}))
}
