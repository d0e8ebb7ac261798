package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/database/models/valuation"
	"github.com/mcdexio/perp-position-engine/perp"
	"gorm.io/gorm"
)

type DAO struct {
	SnapshotDAO
}

type SnapshotDAO struct {
}

func (sd *SnapshotDAO) SaveSnapshots(db *gorm.DB, snapshots []*valuation.PositionSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	if err := db.Create(&snapshots).Error; err != nil {
		return fmt.Errorf("failed to create position_snapshot: size=%v %w", len(snapshots), err)
	}
	return nil
}

// LatestSnapshots returns the most recent snapshot batch of account.
func (sd *SnapshotDAO) LatestSnapshots(db *gorm.DB, account common.Address) ([]*valuation.PositionSnapshot, error) {
	key := valuation.AccountKey(account)
	latest := db.Model(&valuation.PositionSnapshot{}).Select("max(timestamp)").Where("account=?", key)

	var snapshots []*valuation.PositionSnapshot
	if err := db.Where("account=? and timestamp=(?)", key, latest).
		Order("id asc").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("fail to get snapshots of %s %w", key, err)
	}
	return snapshots, nil
}

// SnapshotRecorder journals valuations as position snapshots.
type SnapshotRecorder struct {
	SnapshotDAO
	db  *gorm.DB
	now func() time.Time
}

func NewSnapshotRecorder(db *gorm.DB) *SnapshotRecorder {
	return &SnapshotRecorder{db: db, now: time.Now}
}

func (r *SnapshotRecorder) Record(ctx context.Context, account common.Address, valuations []*perp.Valuation) error {
	ts := r.now().Unix()
	snapshots := make([]*valuation.PositionSnapshot, len(valuations))
	for i, v := range valuations {
		snapshots[i] = valuation.NewPositionSnapshot(account, v, ts)
	}
	return Transaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		return r.SaveSnapshots(tx, snapshots)
	})
}
