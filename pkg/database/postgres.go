package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-pos-ws/internal/model"
)

func ConnectDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Argentina/Buenos_Aires",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled connections
	}), &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // Unique-constraint races surface as gorm.ErrDuplicatedKey
	})

	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	// Connection Pooling Setup
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.Info("Database connection established")
	return db
}

// Migrate creates the schema plus the constraints AutoMigrate cannot express.
// Also used by the test suite against its in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
		&model.CashSession{},
		&model.Expense{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	); err != nil {
		return err
	}

	// At most one OPEN session per store. This closes the check-then-insert
	// race: a concurrent second open fails on the index, not on a stale read.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_cash_sessions_store_open
		 ON cash_sessions (store_id) WHERE status = 'OPEN' AND deleted_at IS NULL`,
	).Error; err != nil {
		return err
	}

	// Duplicate checkout submissions with the same idempotency key fail fast
	// and are treated as "already processed".
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_sales_store_idempotency_key
		 ON sales (store_id, idempotency_key) WHERE idempotency_key <> '' AND deleted_at IS NULL`,
	).Error
}
