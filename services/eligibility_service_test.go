package services

import (
	"fmt"
	"testing"

	"creator-rewards-system/eligibility"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func eligibleVerdict() eligibility.Result {
	return eligibility.Result{
		IsEligible:    true,
		Reasons:       []string{"Eligible"},
		EligibleRobux: eligibility.RobuxPerEligibleVideo,
	}
}

func TestPersistVerdictsContinuesAfterFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEligibilityService(db)

	// One write in the batch fails; the rest must still be attempted.
	mock.ExpectQuery(`INSERT INTO "video_eligibilities"`).
		WillReturnError(fmt.Errorf("connection reset by peer"))
	mock.ExpectQuery(`INSERT INTO "video_eligibilities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e-1"))
	mock.ExpectQuery(`INSERT INTO "video_eligibilities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e-2"))

	updated, failed := svc.persistVerdicts(map[string]eligibility.Result{
		"vid-a": eligibleVerdict(),
		"vid-b": eligibleVerdict(),
		"vid-c": eligibleVerdict(),
	})

	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, failed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistVerdictsLeavesOverrideColumnsAlone(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEligibilityService(db)

	// The conflict assignment list must end at updated_at: an override
	// column in it would clobber a sticky admin decision on recompute.
	mock.ExpectQuery(`ON CONFLICT \("video_id"\) DO UPDATE SET ` +
		`"is_eligible"="excluded"\."is_eligible",` +
		`"reasons"="excluded"\."reasons",` +
		`"eligible_robux"="excluded"\."eligible_robux",` +
		`"updated_at"="excluded"\."updated_at" RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("e-1"))

	updated, failed := svc.persistVerdicts(map[string]eligibility.Result{
		"vid-a": eligibleVerdict(),
	})

	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, failed)
	require.NoError(t, mock.ExpectationsWereMet())
}
