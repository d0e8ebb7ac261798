package valuationdb

import (
	"strconv"

	"github.com/mcdexio/perp-position-engine/common/logging"
	"github.com/mcdexio/perp-position-engine/database/models"
	"github.com/mcdexio/perp-position-engine/database/models/valuation"
	"github.com/mcdexio/perp-position-engine/types"
	"gorm.io/gorm"
)

var logger = logging.NewLoggerTag("database")

// ValuerDBApp is the database application of the position valuer.
type ValuerDBApp struct {
}

// Models returns the models for a given database app.
func (e *ValuerDBApp) Models() []interface{} {
	return valuation.AllModels
}

// IsEmpty check if a given database is empty.
func (e *ValuerDBApp) IsEmpty(db *gorm.DB) bool {
	return !db.Migrator().HasTable(string(types.PositionSnapshot))
}

// PostReset is executed after db is reset.
func (e *ValuerDBApp) PostReset(tx *gorm.DB) error {
	return bumpSchemaVersion(tx)
}

func bumpSchemaVersion(db *gorm.DB) error {
	var v int
	var last models.System
	err := db.Where("name = ?", types.SysVarSchemaVersion).Order("id desc").First(&last).Error
	if err == nil {
		if v, err = strconv.Atoi(last.Value); err != nil {
			logger.Warn("bad schema_version %q, restart from 1", last.Value)
			v = 0
		}
	}
	if err := db.Create(&models.System{
		Name:  types.SysVarSchemaVersion,
		Value: strconv.Itoa(v + 1),
	}).Error; err != nil {
		return err
	}
	logger.Info("Initialized DB Schema version to %v.", v+1)
	return nil
}
