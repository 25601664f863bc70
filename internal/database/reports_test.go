package database

import (
	"errors"
	"testing"

	"solar-dealer-hub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mockMySQL points DB at a sqlmock connection speaking the MySQL dialect.
func mockMySQL(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	prev := DB
	DB = db
	t.Cleanup(func() {
		DB = prev
		_ = sqlDB.Close()
	})
	return mock
}

func TestGetProcurementSummary(t *testing.T) {
	mock := mockMySQL(t)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(total_amount\\), 0\\) FROM `procurement_orders`").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(1250.5))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `procurement_orders`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) as orders, .+ FROM `procurement_orders` GROUP BY `status`").
		WillReturnRows(sqlmock.NewRows([]string{"status", "orders", "amount"}).
			AddRow("Approved", 1, 1000.5).
			AddRow("Pending", 2, 250))

	summary, err := GetProcurementSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalOrders)
	assert.Equal(t, 1250.5, summary.TotalAmount)
	assert.Equal(t, []models.StatusTotal{
		{Status: "Approved", Orders: 1, Amount: 1000.5},
		{Status: "Pending", Orders: 2, Amount: 250},
	}, summary.ByStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProcurementSummaryEmpty(t *testing.T) {
	mock := mockMySQL(t)

	mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectQuery("SELECT count").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("GROUP BY `status`").WillReturnRows(sqlmock.NewRows([]string{"status", "orders", "amount"}))

	summary, err := GetProcurementSummary()
	require.NoError(t, err)
	assert.NotNil(t, summary.ByStatus, "an empty table still yields a list")
	assert.Empty(t, summary.ByStatus)
}

func TestGetProcurementSummaryError(t *testing.T) {
	mock := mockMySQL(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT COALESCE").WillReturnError(boom)

	_, err := GetProcurementSummary()
	assert.ErrorIs(t, err, boom)
}
