package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kittyscape/lootbot/internal/domain"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, handle string) ([]string, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordDropValued(ctx context.Context, ownerID, itemName string, quantity, totalValue int64) (*domain.EventSummary, error) {
	args := m.Called(ctx, ownerID, itemName, quantity, totalValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventSummary), args.Error(1)
}

func (m *mockRecorder) RecordCollection(ctx context.Context, ownerID, itemName string) (*domain.EventSummary, error) {
	args := m.Called(ctx, ownerID, itemName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventSummary), args.Error(1)
}

func TestHandleMessageDrop(t *testing.T) {
	resolver := new(mockResolver)
	recorder := new(mockRecorder)
	svc := NewService(resolver, recorder)

	resolver.On("Resolve", mock.Anything, "Zezima").Return([]string{"user-1"}, nil)
	recorder.On("RecordDropValued", mock.Anything, "user-1", "Twisted bow", int64(1), int64(1234567)).
		Return(&domain.EventSummary{EventID: 7, PointsDelta: 12, NewPoints: 12}, nil)

	cand, results, err := svc.HandleMessage(context.Background(), Envelope{
		Content: "Zezima received: Twisted bow (1,234,567 coins)",
	})
	require.NoError(t, err)
	require.NotNil(t, cand)
	require.Len(t, results, 1)
	assert.Equal(t, "user-1", results[0].OwnerID)
	assert.Equal(t, int64(12), results[0].Summary.PointsDelta)
	assert.False(t, results[0].Skipped)

	resolver.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestHandleMessageFansOutToAllIdentities(t *testing.T) {
	resolver := new(mockResolver)
	recorder := new(mockRecorder)
	svc := NewService(resolver, recorder)

	resolver.On("Resolve", mock.Anything, "Shared Alt").Return([]string{"user-1", "user-2"}, nil)
	recorder.On("RecordCollection", mock.Anything, "user-1", "Abyssal whip").
		Return(&domain.EventSummary{EventID: 1, PointsDelta: 268}, nil)
	recorder.On("RecordCollection", mock.Anything, "user-2", "Abyssal whip").
		Return(&domain.EventSummary{EventID: 2, PointsDelta: 268}, nil)

	_, results, err := svc.HandleMessage(context.Background(), Envelope{
		Content: "Shared Alt received a collection log item: Abyssal whip",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	recorder.AssertExpectations(t)
}

func TestHandleMessageDuplicateCollectionSkips(t *testing.T) {
	resolver := new(mockResolver)
	recorder := new(mockRecorder)
	svc := NewService(resolver, recorder)

	resolver.On("Resolve", mock.Anything, "Zezima").Return([]string{"user-1"}, nil)
	recorder.On("RecordCollection", mock.Anything, "user-1", "Abyssal whip").
		Return(nil, domain.ErrDuplicateEntry)

	_, results, err := svc.HandleMessage(context.Background(), Envelope{
		Content: "Zezima received a collection log item: Abyssal whip",
	})
	require.NoError(t, err, "a duplicate entry is a replay, not a failure")
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Nil(t, results[0].Summary)
}

func TestHandleMessageUnlinkedHandle(t *testing.T) {
	resolver := new(mockResolver)
	recorder := new(mockRecorder)
	svc := NewService(resolver, recorder)

	resolver.On("Resolve", mock.Anything, "Stranger").Return([]string{}, nil)

	cand, results, err := svc.HandleMessage(context.Background(), Envelope{
		Content: "Stranger received: Coal (45 coins)",
	})
	require.NoError(t, err)
	assert.NotNil(t, cand, "the candidate is still reported for auditing")
	assert.Empty(t, results)
	recorder.AssertNotCalled(t, "RecordDropValued", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessageNoMatch(t *testing.T) {
	resolver := new(mockResolver)
	recorder := new(mockRecorder)
	svc := NewService(resolver, recorder)

	cand, results, err := svc.HandleMessage(context.Background(), Envelope{Content: "gz on 99 firemaking"})
	require.NoError(t, err)
	assert.Nil(t, cand)
	assert.Empty(t, results)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}
