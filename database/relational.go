package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laptoppos/config"
)

// InitDB opens the relational sync target using environment/config:
// PostgreSQL by default, SQLite as the local fallback driver.
func InitDB() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch config.AppConfig.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBUser,
			config.AppConfig.DBPassword,
			config.AppConfig.DBName,
		)

		log.Printf("Connecting to PostgreSQL at host=%s port=%s db=%s...",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBName,
		)

		db, err := gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			log.Printf("Failed to connect to PostgreSQL: %v", err)
			return nil, err
		}
		log.Println("PostgreSQL connection successful.")
		return db, nil

	case "sqlite", "sqlite3":
		dbDir := filepath.Dir(config.AppConfig.DBPath)
		if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
			log.Printf("Failed to create SQLite folder: %v", err)
			return nil, err
		}

		db, err := gorm.Open(sqlite.Open(config.AppConfig.DBPath), gormConfig)
		if err != nil {
			log.Printf("Failed to connect to SQLite: %v", err)
			return nil, err
		}
		log.Printf("SQLite connection successful at %s", config.AppConfig.DBPath)
		return db, nil
	}

	return nil, fmt.Errorf("unsupported DB driver: %s", config.AppConfig.DBDriver)
}

// CloseDB closes the relational connection.
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunMigrations creates the mirror tables if they don't exist.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&User{},
		&RegistrationRequest{},
		&Customer{},
		&Laptop{},
		&Repair{},
		&Sale{},
		&Installment{},
		&AuditLog{},
	); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// RelationalSyncer mirrors the snapshot into relational tables with a
// delete-all-then-bulk-insert pass per table, children deleted before
// parents and parents inserted before children, inside one transaction.
type RelationalSyncer struct {
	DB *gorm.DB
}

// Sync applies the whole snapshot; either every table reflects the
// snapshot afterward or none does.
func (r *RelationalSyncer) Sync(snap *Snapshot) error {
	if r.DB == nil {
		return fmt.Errorf("relational sync target not configured")
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		// Children first on delete.
		for _, model := range []interface{}{
			&AuditLog{}, &Installment{}, &Sale{}, &Repair{},
			&Laptop{}, &Customer{}, &RegistrationRequest{}, &User{},
		} {
			if err := wipe.Delete(model).Error; err != nil {
				return err
			}
		}
		// Parents first on insert.
		if len(snap.Users) > 0 {
			if err := tx.CreateInBatches(snap.Users, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.RegistrationRequests) > 0 {
			if err := tx.CreateInBatches(snap.RegistrationRequests, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.Customers) > 0 {
			if err := tx.CreateInBatches(snap.Customers, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.Laptops) > 0 {
			if err := tx.CreateInBatches(snap.Laptops, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.Repairs) > 0 {
			if err := tx.CreateInBatches(snap.Repairs, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.Sales) > 0 {
			if err := tx.CreateInBatches(snap.Sales, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.Installments) > 0 {
			if err := tx.CreateInBatches(snap.Installments, 200).Error; err != nil {
				return err
			}
		}
		if len(snap.AuditLogs) > 0 {
			if err := tx.CreateInBatches(snap.AuditLogs, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
