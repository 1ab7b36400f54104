package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"hl-portal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAmenityStore_Upsert(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `properties` WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `amenities`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(3, 1))

	err := stores.Amenities.Upsert(context.Background(), &models.Amenity{ID: 3, Parking: models.AmenityPresent})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAmenityStore_Upsert_MissingProperty(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `properties`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := stores.Amenities.Upsert(context.Background(), &models.Amenity{ID: 3})
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAmenityStore_Delete(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `amenities` WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `amenities` WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, stores.Amenities.Delete(context.Background(), 3))
	require.ErrorIs(t, stores.Amenities.Delete(context.Background(), 4), ErrNotFound)
}

func TestAgentStore_Delete_DetachesProperties(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `properties` SET `agent_id`=? WHERE agent_id = ?")).
		WithArgs(nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `agent` WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, stores.Agents.Delete(context.Background(), 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAgentStore_Delete_MissingRollsBack(t *testing.T) {
	stores, mock := newMockStores(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `properties`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `agent`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.ErrorIs(t, stores.Agents.Delete(context.Background(), 9), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"raw duplicate", &mysql.MySQLError{Number: 1062}, ErrDuplicate},
		{"server gone", &mysql.MySQLError{Number: 2006}, ErrUnavailable},
		{"lost connection", &mysql.MySQLError{Number: 2013}, ErrUnavailable},
		{"refused", errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"), ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify("op", tc.err), tc.want)
		})
	}

	other := errors.New("syntax error")
	err := classify("op", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.NoError(t, classify("op", nil))
}
