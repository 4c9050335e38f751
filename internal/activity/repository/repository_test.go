package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aggregateTestColumns = []string{
	"id", "session_id", "user_id", "phone", "email", "activity_type", "product_data",
	"activity_count", "intent_score", "first_activity_at", "last_activity_at", "created_at",
}

func TestUpsertPassesDeltaAndPerUnitWeight(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(aggregateTestColumns).
		AddRow(int64(1), "sess-1", (*string)(nil), (*string)(nil), (*string)(nil), "Add to Cart",
			(*string)(nil), 3, 15, now, now, now)

	mock.ExpectQuery("INSERT INTO browser_activities").
		WithArgs("sess-1", "Add to Cart", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 1, 5).
		WillReturnRows(rows)

	repo := New(mock)
	agg, err := repo.Upsert(context.Background(), UpsertParams{
		SessionID:    "sess-1",
		ActivityType: "Add to Cart",
		DeltaCount:   1,
		Weight:       5,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, agg.ActivityCount)
	assert.Equal(t, 15, agg.IntentScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertMergesContactIdentifiers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	phone := "+919876543210"
	now := time.Now()
	rows := pgxmock.NewRows(aggregateTestColumns).
		AddRow(int64(1), "sess-1", (*string)(nil), &phone, (*string)(nil), "Product View",
			(*string)(nil), 5, 5, now, now, now)

	mock.ExpectQuery("INSERT INTO browser_activities").
		WithArgs("sess-1", "Product View", pgxmock.AnyArg(), &phone, pgxmock.AnyArg(), pgxmock.AnyArg(), 2, 1).
		WillReturnRows(rows)

	repo := New(mock)
	agg, err := repo.Upsert(context.Background(), UpsertParams{
		SessionID:    "sess-1",
		ActivityType: "Product View",
		Phone:        &phone,
		DeltaCount:   2,
		Weight:       1,
	})

	require.NoError(t, err)
	require.NotNil(t, agg.Phone)
	assert.Equal(t, phone, *agg.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersBySession(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(aggregateTestColumns).
		AddRow(int64(1), "sess-1", (*string)(nil), (*string)(nil), (*string)(nil), "Add to Cart",
			(*string)(nil), 1, 5, now, now, now).
		AddRow(int64(2), "sess-1", (*string)(nil), (*string)(nil), (*string)(nil), "Product View",
			(*string)(nil), 4, 4, now, now, now)

	session := "sess-1"
	mock.ExpectQuery("SELECT .+ FROM browser_activities WHERE session_id").
		WithArgs(session).
		WillReturnRows(rows)

	repo := New(mock)
	aggregates, err := repo.List(context.Background(), &session)

	require.NoError(t, err)
	assert.Len(t, aggregates, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
