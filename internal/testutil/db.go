// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// OpenDB returns a migrated in-memory sqlite database, installs it as
// database.DB and closes it when the test ends.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

// Fixtures holds the reference rows created by Seed.
type Fixtures struct {
	Gujarat   models.State
	Rajasthan models.State
	Ahmedabad models.District
	Jaipur    models.District
	West      models.Cluster
	Adani     models.Brand
	Waaree    models.Brand
	Supplier  models.Vendor
	Panel     models.Product
	Inverter  models.Product
}

// Seed inserts a small location tree, two brands, one supplier and two products.
func Seed(t testing.TB, db *gorm.DB) Fixtures {
	t.Helper()

	var f Fixtures
	f.Gujarat = models.State{Name: "Gujarat"}
	f.Rajasthan = models.State{Name: "Rajasthan"}
	require.NoError(t, db.Create(&f.Gujarat).Error)
	require.NoError(t, db.Create(&f.Rajasthan).Error)

	f.Ahmedabad = models.District{Name: "Ahmedabad", StateID: f.Gujarat.ID}
	f.Jaipur = models.District{Name: "Jaipur", StateID: f.Rajasthan.ID}
	require.NoError(t, db.Create(&f.Ahmedabad).Error)
	require.NoError(t, db.Create(&f.Jaipur).Error)

	f.West = models.Cluster{Name: "Ahmedabad West", DistrictID: f.Ahmedabad.ID}
	require.NoError(t, db.Create(&f.West).Error)

	f.Adani = models.Brand{Name: "Adani"}
	f.Waaree = models.Brand{Name: "Waaree"}
	require.NoError(t, db.Create(&f.Adani).Error)
	require.NoError(t, db.Create(&f.Waaree).Error)

	f.Supplier = models.Vendor{Name: "Sun Distributors", Contact: "9800000000", Type: models.VendorTypeSupplier}
	require.NoError(t, db.Create(&f.Supplier).Error)
	require.NoError(t, db.Create(&models.Vendor{Name: "Install Crew", Type: "service"}).Error)

	f.Panel = models.Product{Name: "Adani 540W Mono PERC", BrandID: f.Adani.ID, Technology: "Mono PERC", Wattage: 540, Price: 100}
	f.Inverter = models.Product{Name: "Waaree 5kW Inverter", BrandID: f.Waaree.ID, Technology: "Inverter", Price: 50}
	require.NoError(t, db.Omit("Brand").Create(&f.Panel).Error)
	require.NoError(t, db.Omit("Brand").Create(&f.Inverter).Error)

	return f
}
