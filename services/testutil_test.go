package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clarinovist/ceritakita-booking-sub001/database"
	"github.com/clarinovist/ceritakita-booking-sub001/lockfile"
	"github.com/clarinovist/ceritakita-booking-sub001/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestLocks(t *testing.T) *lockfile.Manager {
	t.Helper()
	locks, err := lockfile.New(t.TempDir(), 5*time.Second, 10*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	return locks
}

func newTestBookingService(t *testing.T) (*BookingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	coupons := NewCouponService(db, zap.NewNop())
	svc := NewBookingService(db, newTestLocks(t), coupons, zap.NewNop())
	return svc, db
}

func seedPhotographer(t *testing.T, db *gorm.DB, name string) *models.Photographer {
	t.Helper()
	p := &models.Photographer{Name: name, IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedAddon(t *testing.T, db *gorm.DB, name string, price int64, categories ...string) *models.Addon {
	t.Helper()
	a := &models.Addon{
		Name:       name,
		Price:      price,
		Categories: models.StringList(categories),
		IsActive:   true,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func validDraft(date time.Time) *BookingDraft {
	return &BookingDraft{
		CustomerName:     "Sinta",
		CustomerWhatsapp: "+6281234567890",
		CustomerCategory: "wedding",
		BookingDate:      date,
		TotalPrice:       1_000_000,
		ServiceBasePrice: 1_000_000,
	}
}
