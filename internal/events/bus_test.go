package events

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
	ctxErr error
}

func (s *recordingSink) Publish(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.ctxErr = ctx.Err()
	return s.err
}

func (s *recordingSink) received() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func newTestBus() (*Bus, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	return NewBus(logger, time.Second), buf
}

func testEvent(name Name) Event {
	issue := &models.Issue{
		ID:         uuid.New(),
		Title:      "Broken pipe",
		ReportedBy: uuid.New(),
		AssignedTo: models.Assignment{Department: "Water Supply"},
		Status:     models.StatusSubmitted,
		Priority:   models.PriorityHigh,
	}
	return NewIssueEvent(name, issue, issue.ReportedBy, time.Now())
}

func TestBus_HandlersRunInRegistrationOrder(t *testing.T) {
	bus, _ := newTestBus()
	var order []int
	bus.Subscribe(IssueCreated, func(_ context.Context, _ Event) error { order = append(order, 1); return nil })
	bus.Subscribe(IssueCreated, func(_ context.Context, _ Event) error { order = append(order, 2); return nil })
	bus.Subscribe(IssueResolved, func(_ context.Context, _ Event) error { order = append(order, 99); return nil })

	err := bus.Publish(context.Background(), testEvent(IssueCreated))

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestBus_HandlerErrorsAreJoined(t *testing.T) {
	bus, _ := newTestBus()
	first := errors.New("first")
	second := errors.New("second")
	called := false
	bus.Subscribe(IssueUpvoted, func(_ context.Context, _ Event) error { return first })
	bus.Subscribe(IssueUpvoted, func(_ context.Context, _ Event) error { called = true; return second })

	err := bus.Publish(context.Background(), testEvent(IssueUpvoted))

	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.True(t, called, "a failing handler must not stop the next one")
}

func TestBus_HandlerContextSurvivesCallerCancel(t *testing.T) {
	bus, _ := newTestBus()
	var handlerErr error
	called := false
	bus.Subscribe(IssueCreated, func(ctx context.Context, _ Event) error {
		called = true
		handlerErr = ctx.Err()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.Publish(ctx, testEvent(IssueCreated))

	require.NoError(t, err)
	assert.True(t, called)
	assert.NoError(t, handlerErr)
}

func TestBus_SinksReceiveEveryEvent(t *testing.T) {
	bus, _ := newTestBus()
	sink := &recordingSink{}
	bus.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, testEvent(IssueCreated)))
	require.NoError(t, bus.Publish(ctx, testEvent(IssueAssigned)))
	cancel()
	bus.Close()

	got := sink.received()
	require.Len(t, got, 2)
	names := []Name{got[0].Name, got[1].Name}
	assert.ElementsMatch(t, []Name{IssueCreated, IssueAssigned}, names)
}

func TestBus_SinkContextSurvivesCallerCancel(t *testing.T) {
	bus, _ := newTestBus()
	sink := &recordingSink{}
	bus.AddSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, bus.Publish(ctx, testEvent(IssueCreated)))
	bus.Close()

	require.Len(t, sink.received(), 1)
	assert.NoError(t, sink.ctxErr)
}

func TestBus_SinkErrorIsLoggedNotReturned(t *testing.T) {
	bus, logs := newTestBus()
	bus.AddSink(&recordingSink{err: errors.New("redis down")})

	err := bus.Publish(context.Background(), testEvent(IssueProofAdded))
	bus.Close()

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Failed to deliver event to sink")
	assert.Contains(t, logs.String(), "redis down")
}

func TestNewIssueEvent_CopiesIssueState(t *testing.T) {
	official := uuid.New()
	issue := &models.Issue{
		ID:         uuid.New(),
		Title:      "Dark street",
		ReportedBy: uuid.New(),
		AssignedTo: models.Assignment{Department: "Electricity", Official: &official},
		Status:     models.StatusInProgress,
		Priority:   models.PriorityMedium,
		Votes:      7,
	}
	actor := uuid.New()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	ev := NewIssueEvent(IssueAssigned, issue, actor, at)

	assert.NotEqual(t, uuid.Nil, ev.ID)
	assert.Equal(t, IssueAssigned, ev.Name)
	assert.Equal(t, issue.ID, ev.IssueID)
	assert.Equal(t, "Dark street", ev.IssueTitle)
	assert.Equal(t, issue.ReportedBy, ev.ReporterID)
	assert.Equal(t, actor, ev.ActorID)
	assert.Equal(t, &official, ev.OfficialID)
	assert.Equal(t, "Electricity", ev.Department)
	assert.Equal(t, models.StatusInProgress, ev.Status)
	assert.Equal(t, 7, ev.Votes)
	assert.Equal(t, at, ev.OccurredAt)
}

func TestNewAlertEvent_CarriesArea(t *testing.T) {
	alert := &models.Alert{
		ID:       uuid.New(),
		Title:    "Flood warning",
		Type:     models.AlertFlood,
		Severity: models.SeverityHigh,
		Location: models.AlertArea{Latitude: 19.07, Longitude: 72.87, RadiusMeters: 3000},
		IsActive: true,
	}
	actor := uuid.New()

	ev := NewAlertEvent(AlertCreated, alert, actor, time.Now())

	assert.Equal(t, AlertCreated, ev.Name)
	assert.Equal(t, uuid.Nil, ev.IssueID)
	assert.Equal(t, actor, ev.ActorID)
	require.NotNil(t, ev.Alert)
	assert.Equal(t, alert.ID, ev.Alert.ID)
	assert.Equal(t, 3000, ev.Alert.RadiusMeters)
	assert.Equal(t, models.SeverityHigh, ev.Alert.Severity)
	assert.True(t, ev.Alert.IsActive)
}
