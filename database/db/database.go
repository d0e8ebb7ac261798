package db

import (
	"fmt"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/mcdexio/perp-position-engine/common/config"
	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/database/db/valuationdb"
	"github.com/mcdexio/perp-position-engine/database/models"
	"github.com/mcdexio/perp-position-engine/env"
	"github.com/mcdexio/perp-position-engine/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var log = logging.NewLoggerTag("database")

var (
	dbMu     sync.Mutex
	globalDB *gorm.DB
)

// NewDB opens a postgres connection pool with the shared naming strategy and pool limits.
func NewDB(args string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(args), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to open gorm db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("fail to get sql.DB from gorm db: %w", err)
	}
	sqlDB.SetMaxIdleConns(config.GetInt("DB_MAX_IDLE_CONNS", 2))
	sqlDB.SetMaxOpenConns(config.GetInt("DB_MAX_OPEN_CONNS", 10))
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return db, nil
}

// Initialize dials DB_ARGS. In CI it creates a throwaway database and connects to
// that one instead. It doesn't reset or migrate anything.
func Initialize() {
	dbMu.Lock()
	defer dbMu.Unlock()
	if globalDB != nil {
		return
	}

	log.Info("Initializing database ...")
	args := config.GetString("DB_ARGS")
	db, err := NewDB(args)
	if err != nil {
		log.Critical("%s", err)
	}

	if env.IsCI() {
		name := config.GetString("DBNAME", fmt.Sprintf("test_%v", time.Now().UnixNano()))
		if err := db.Exec("CREATE DATABASE " + name).Error; err != nil {
			log.Warn("create database: %v", err)
		}
		closeDB(db)

		req, err := url.Parse(args)
		if err != nil {
			panic(err)
		}
		req.Path = "/" + name
		log.Info("Dial to %s", req.Redacted())
		if db, err = NewDB(req.String()); err != nil {
			log.Critical("%s", err)
		}
	}
	globalDB = db
	log.Info("Initialize DONE")
}

// Finalize closes the global database.
func Finalize() {
	dbMu.Lock()
	defer dbMu.Unlock()
	if globalDB != nil {
		closeDB(globalDB)
		globalDB = nil
	}
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to get sql.DB err=%v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close db err=%v", err)
	}
}

// GetDB returns the database handle, initializing it on first use.
func GetDB() *gorm.DB {
	dbMu.Lock()
	db := globalDB
	dbMu.Unlock()
	if db != nil {
		return db
	}
	Initialize()

	dbMu.Lock()
	defer dbMu.Unlock()
	if globalDB == nil {
		panic("gets nil db")
	}
	return globalDB
}

func dbAppFromType(appType types.AppType) DBApp {
	switch appType {
	case types.Valuer:
		return &valuationdb.ValuerDBApp{}
	default:
		panic("undefined application environment")
	}
}

// Reset drops the app's tables, migrates them again and runs the post reset hook.
// Without force it refuses to touch a database that already holds data.
func Reset(db *gorm.DB, appType types.AppType, force bool) {
	dbApp := dbAppFromType(appType)
	if !force && !dbApp.IsEmpty(db) {
		log.Critical("valuer database exists, reset aborted.")
	}

	log.Info("Resetting database ...")
	dropAllTables(db, dbApp)

	log.Info("Creating models ...")
	err := Transaction(db, func(tx *gorm.DB) error {
		stmt := &gorm.Statement{DB: db}
		for _, model := range dbApp.Models() {
			if err := stmt.Parse(model); err != nil {
				return fmt.Errorf("fail to parse model %T: %w", model, err)
			}
			log.Info("tableName %+v", stmt.Schema.Table)
			if err := tx.AutoMigrate(model); err != nil {
				return err
			}
			if err := CreateCustomIndices(tx, model, stmt.Schema.Table); err != nil {
				return err
			}
		}
		log.Info("Running post reset hook ...")
		return dbApp.PostReset(tx)
	})
	if err != nil {
		panic(err)
	}
	log.Info("Reset Done")
}

// Transaction wraps the database transaction and to proper error handling.
func Transaction(db *gorm.DB, body func(*gorm.DB) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		log.Error("Transaction: Cannot open transaction %s", tx.Error.Error())
		return tx.Error
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error("Transaction: rollback due to panic: %v\n%s",
				recovered, string(debug.Stack()))
			if rbErr := tx.Rollback().Error; rbErr != nil {
				log.Error("Transaction: rollback failed: %v", rbErr)
			}
			panic(recovered)
		}
		if err != nil {
			log.Warn("Transaction: rollback due to error: %v", err)
			if rbErr := tx.Rollback().Error; rbErr != nil {
				log.Error("Transaction: rollback failed: %v", rbErr)
			}
		}
	}()

	if err = body(tx); err != nil {
		return err
	}
	return tx.Commit().Error
}

// CreateCustomIndices creates custom indices if model implements models.CustomIndexer.
func CreateCustomIndices(tx *gorm.DB, model interface{}, tableName string) error {
	m, ok := model.(models.CustomIndexer)
	if !ok {
		return nil
	}
	for _, idx := range m.Indexes() {
		unique := ""
		extension := ""
		if idx.Unique {
			unique = "UNIQUE"
		}
		if len(idx.Type) != 0 {
			extension = "USING " + idx.Type
		}
		columns := strings.Join(idx.Fields, ",")
		stat := fmt.Sprintf(
			`CREATE %s INDEX IF NOT EXISTS %s_%s ON "%s" %s(%s) %s`,
			unique, tableName, idx.Name, tableName, extension, columns, idx.Condition)
		if err := tx.Exec(stat).Error; err != nil {
			return err
		}
	}
	return nil
}

func dropAllTables(db *gorm.DB, dbApp DBApp) {
	log.Info("Dropping old tables ...")
	stmt := &gorm.Statement{DB: db}
	err := Transaction(db, func(tx *gorm.DB) error {
		for _, model := range dbApp.Models() {
			if err := stmt.Parse(model); err != nil {
				log.Warn("failed to parse model %+v, err=%v", model, err)
				continue
			}
			if stmt.Schema.Table == "system" {
				log.Info("Skip system table")
				continue
			}
			sql := fmt.Sprintf("DROP TABLE IF EXISTS \"%s\" CASCADE", stmt.Schema.Table)
			if err := tx.Exec(sql).Error; err != nil {
				return fmt.Errorf("exec '%s': %w", sql, err)
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
}
