package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"timetable_backend/internals/configs"
	model "timetable_backend/internals/features/school/timetables/model"
	helperAuth "timetable_backend/internals/helpers/auth"
)

var DB *gorm.DB

// ConnectDB: postgres (default). DB_DRIVER=sqlite + DB_SQLITE_PATH untuk dev lokal.
func ConnectDB() {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{Logger: configs.NewGormLogger()}

	switch getenv("DB_DRIVER", "postgres") {
	case "sqlite":
		path := getenv("DB_SQLITE_PATH", "timetable.db")
		log.Printf("🔌 Koneksi ke SQLite (%s)...", path)
		db, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		log.Println("🔌 Koneksi ke PostgreSQL...")
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN(),
			PreferSimpleProtocol: true, // cocok untuk PgBouncer (transaction pooling)
		}), cfg)
	}
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func postgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=timetable&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		getenv("DB_SSLMODE", "require"),
	)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate: AutoMigrate semua tabel timetable (dev/test; prod pakai migration SQL)
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate timetable: %w", err)
	}
	if err := db.AutoMigrate(&helperAuth.TokenBlacklistModel{}); err != nil {
		return fmt.Errorf("auto migrate token_blacklist: %w", err)
	}
	log.Println("✅ AutoMigrate timetable selesai.")
	return nil
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		var n int64
		if err := DB.Model(&model.PeriodModel{}).Count(&n).Error; err != nil {
			log.Printf("warm-up periods err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
