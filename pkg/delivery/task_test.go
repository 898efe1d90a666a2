package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/campaignkit/courier/pkg/mailer"
)

// MockTransport is a mock implementation of mailer.Transport.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTransport) Open(ctx context.Context) (mailer.Conn, error) {
	args := m.Called(ctx)
	if conn := args.Get(0); conn != nil {
		return conn.(mailer.Conn), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockConn is a mock implementation of mailer.Conn.
type MockConn struct {
	mock.Mock
}

func (m *MockConn) SendBatch(ctx context.Context, messages []*mailer.Email) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func (m *MockConn) Close() error {
	args := m.Called()
	return args.Error(0)
}

// countingReporter records captured exceptions.
type countingReporter struct {
	mu     sync.Mutex
	errors []error
}

func (r *countingReporter) CaptureException(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *countingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// recordingTransport counts batch-atomic sends per recipient address.
type recordingTransport struct {
	mu    sync.Mutex
	sends map[string]int
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{sends: make(map[string]int)}
}

func (t *recordingTransport) Available() bool { return true }

func (t *recordingTransport) Open(context.Context) (mailer.Conn, error) {
	return &recordingConn{transport: t}, nil
}

type recordingConn struct {
	transport *recordingTransport
}

func (c *recordingConn) SendBatch(_ context.Context, messages []*mailer.Email) error {
	c.transport.mu.Lock()
	defer c.transport.mu.Unlock()
	for _, msg := range messages {
		for _, to := range msg.To {
			c.transport.sends[to]++
		}
	}
	return nil
}

func (c *recordingConn) Close() error { return nil }

func targetsOf(emails ...string) []Target {
	targets := make([]Target, len(emails))
	for i, e := range emails {
		targets[i] = Target{Recipient: e, RawEmail: e}
	}
	return targets
}

func TestNewTask_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTask(nil, &MockTransport{})
	require.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewTask(NewMemoryStore(), nil)
	require.ErrorIs(t, err, ErrTransportRequired)
}

func TestTask_Handle_DeliversAndMarksSent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	sentAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	conn := &MockConn{}
	conn.On("SendBatch", mock.Anything, mock.MatchedBy(func(messages []*mailer.Email) bool {
		return len(messages) == 2 &&
			messages[0].To[0] == "alice@example.com" &&
			messages[0].Subject == "Hello" &&
			messages[0].Headers["X-Campaign"] == "launch" &&
			messages[1].To[0] == "bob@example.com"
	})).Return(nil).Once()
	conn.On("Close").Return(nil).Once()

	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(conn, nil).Once()

	task, err := NewTask(store, transport, WithClock(func() time.Time { return sentAt }))
	require.NoError(t, err)
	require.Equal(t, TaskName, task.Name())

	err = task.Handle(context.Background(), Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com", "bob@example.com"),
		Subject:     "Hello",
		Headers:     map[string]string{"X-Campaign": "launch"},
		HTMLBody:    "<p>hi</p>",
	})
	require.NoError(t, err)

	err = store.WithinTx(context.Background(), func(tx Tx) error {
		for _, email := range []string{"alice@example.com", "bob@example.com"} {
			rec, err := tx.GetOrCreate(context.Background(), "launch", email)
			require.NoError(t, err)
			require.True(t, rec.Sent())
			require.Equal(t, sentAt, rec.SentAt.UTC())
		}
		return nil
	})
	require.NoError(t, err)

	transport.AssertExpectations(t)
	conn.AssertExpectations(t)
}

func TestTask_Handle_RepeatInvocationSendsNothing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	payload := Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com"),
		Subject:     "Hello",
	}

	conn := &MockConn{}
	conn.On("SendBatch", mock.Anything, mock.Anything).Return(nil).Once()
	conn.On("Close").Return(nil).Once()
	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(conn, nil).Once()

	task, err := NewTask(store, transport)
	require.NoError(t, err)

	require.NoError(t, task.Handle(context.Background(), payload))

	// The repeat never reaches the transport: the batch is empty.
	require.NoError(t, task.Handle(context.Background(), payload))

	transport.AssertNumberOfCalls(t, "Open", 1)
	conn.AssertNumberOfCalls(t, "SendBatch", 1)
}

func TestTask_Handle_EmptyRecipients(t *testing.T) {
	t.Parallel()

	transport := &MockTransport{}
	task, err := NewTask(NewMemoryStore(), transport)
	require.NoError(t, err)

	err = task.Handle(context.Background(), Payload{CampaignKey: "launch"})
	require.NoError(t, err)
	transport.AssertNotCalled(t, "Open")
}

func TestTask_Handle_SendFailureIsAbsorbed(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	sendErr := errors.New("provider rejected the batch")

	conn := &MockConn{}
	conn.On("SendBatch", mock.Anything, mock.Anything).Return(sendErr).Once()
	conn.On("Close").Return(nil).Once()
	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(conn, nil).Once()

	reporter := &countingReporter{}
	task, err := NewTask(store, transport, WithReporter(reporter))
	require.NoError(t, err)

	payload := Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com", "bob@example.com"),
	}

	// The job succeeds even though nothing was delivered.
	require.NoError(t, task.Handle(context.Background(), payload))

	require.Equal(t, 1, reporter.count())
	require.ErrorIs(t, reporter.errors[0], sendErr)
	conn.AssertExpectations(t)

	// No record was marked sent, so a later invocation retries everyone.
	err = store.WithinTx(context.Background(), func(tx Tx) error {
		batch, err := BuildBatch(context.Background(), tx, "launch", payload.To)
		require.NoError(t, err)
		require.Len(t, batch, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestTask_Handle_OpenFailureIsAbsorbed(t *testing.T) {
	t.Parallel()

	openErr := errors.New("dial tcp: connection refused")
	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(nil, openErr).Once()

	reporter := &countingReporter{}
	task, err := NewTask(NewMemoryStore(), transport, WithReporter(reporter))
	require.NoError(t, err)

	err = task.Handle(context.Background(), Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, reporter.count())
	require.ErrorIs(t, reporter.errors[0], openErr)
}

func TestTask_Handle_ConnClosedAfterFailedSend(t *testing.T) {
	t.Parallel()

	conn := &MockConn{}
	conn.On("SendBatch", mock.Anything, mock.Anything).Return(errors.New("timeout")).Once()
	conn.On("Close").Return(errors.New("already closed")).Once()
	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(conn, nil).Once()

	reporter := &countingReporter{}
	task, err := NewTask(NewMemoryStore(), transport, WithReporter(reporter))
	require.NoError(t, err)

	// The close failure stays silent; only the send failure is reported.
	err = task.Handle(context.Background(), Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, reporter.count())
	conn.AssertExpectations(t)
}

// failingTx injects storage failures under an otherwise working store.
type failingStore struct {
	inner       Store
	markSentErr error
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.inner.WithinTx(ctx, func(tx Tx) error {
		return fn(&failingTx{Tx: tx, markSentErr: s.markSentErr})
	})
}

type failingTx struct {
	Tx
	markSentErr error
}

func (t *failingTx) MarkSent(ctx context.Context, rec *Record, at time.Time) error {
	if t.markSentErr != nil {
		return t.markSentErr
	}
	return t.Tx.MarkSent(ctx, rec, at)
}

func TestTask_Handle_StorageFailurePropagates(t *testing.T) {
	t.Parallel()

	storageErr := errors.Join(ErrStorageUnavailable, errors.New("connection reset"))
	store := &failingStore{inner: NewMemoryStore(), markSentErr: storageErr}

	conn := &MockConn{}
	conn.On("SendBatch", mock.Anything, mock.Anything).Return(nil).Once()
	conn.On("Close").Return(nil).Once()
	transport := &MockTransport{}
	transport.On("Open", mock.Anything).Return(conn, nil).Once()

	reporter := &countingReporter{}
	task, err := NewTask(store, transport, WithReporter(reporter))
	require.NoError(t, err)

	err = task.Handle(context.Background(), Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com"),
	})
	require.ErrorIs(t, err, ErrStorageUnavailable)
	// Storage failures surface to the scheduler, not the reporter.
	require.Equal(t, 0, reporter.count())
}

func TestTask_Handle_ConcurrentInvocationsSendOnce(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	transport := newRecordingTransport()
	task, err := NewTask(store, transport)
	require.NoError(t, err)

	// Two workers pick up overlapping invocations of the same campaign.
	first := Payload{
		CampaignKey: "launch",
		To:          targetsOf("alice@example.com", "bob@example.com"),
	}
	second := Payload{
		CampaignKey: "launch",
		To:          targetsOf("bob@example.com", "carol@example.com"),
	}

	var g errgroup.Group
	g.Go(func() error { return task.Handle(context.Background(), first) })
	g.Go(func() error { return task.Handle(context.Background(), second) })
	require.NoError(t, g.Wait())

	transport.mu.Lock()
	defer transport.mu.Unlock()
	require.Equal(t, 1, transport.sends["alice@example.com"])
	require.Equal(t, 1, transport.sends["bob@example.com"], "overlapping recipient must receive exactly one email")
	require.Equal(t, 1, transport.sends["carol@example.com"])
}
