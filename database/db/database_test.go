package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mcdexio/perp-position-engine/database/models/valuation"
	"github.com/mcdexio/perp-position-engine/fixed"
	"github.com/mcdexio/perp-position-engine/perp"
	"github.com/mcdexio/perp-position-engine/types"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SnapshotTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (s *SnapshotTestSuite) SetupSuite() {
	if os.Getenv("DB_ARGS") == "" {
		s.T().Skip("DB_ARGS is not set")
	}
	Initialize()
	s.db = GetDB()
}

func (s *SnapshotTestSuite) SetupTest() {
	Reset(s.db, types.Valuer, true)
}

func (s *SnapshotTestSuite) TearDownSuite() {
	Finalize()
}

func (s *SnapshotTestSuite) valuations() []*perp.Valuation {
	calc := perp.NewCalculator(perp.DefaultParams())
	return calc.ValuateAll([]*perp.Position{
		{
			PositionKey:  perp.PositionKey{CollateralToken: common.HexToAddress("0x1"), IndexToken: common.HexToAddress("0x1"), IsLong: true},
			Size:         fixed.USD(1000),
			Collateral:   fixed.USD(100),
			AveragePrice: fixed.USD(2000),
			MarkPrice:    fixed.USD(2100),
		},
		{
			PositionKey:  perp.PositionKey{CollateralToken: common.HexToAddress("0x2"), IndexToken: common.HexToAddress("0x1")},
			Size:         fixed.USD(500),
			Collateral:   fixed.USD(50),
			AveragePrice: fixed.USD(2000),
		},
	})
}

func (s *SnapshotTestSuite) TestRecordAndLatest() {
	account := common.HexToAddress("0xabc")
	recorder := NewSnapshotRecorder(s.db)

	recorder.now = func() time.Time { return time.Unix(100, 0) }
	s.Require().NoError(recorder.Record(context.Background(), account, s.valuations()))
	recorder.now = func() time.Time { return time.Unix(200, 0) }
	s.Require().NoError(recorder.Record(context.Background(), account, s.valuations()[:1]))

	var dao DAO
	snapshots, err := dao.LatestSnapshots(s.db, account)
	s.Require().NoError(err)
	s.Require().Len(snapshots, 1)
	s.Equal(int64(200), snapshots[0].Timestamp)
	s.Equal(0, valuation.Int(snapshots[0].NetValue).Cmp(fixed.USD(150)))

	snapshots, err = dao.LatestSnapshots(s.db, common.HexToAddress("0xdef"))
	s.Require().NoError(err)
	s.Empty(snapshots)
}

func (s *SnapshotTestSuite) TestUnavailableIsNull() {
	account := common.HexToAddress("0xabc")
	s.Require().NoError(NewSnapshotRecorder(s.db).Record(context.Background(), account, s.valuations()[1:]))

	var dao DAO
	snapshots, err := dao.LatestSnapshots(s.db, account)
	s.Require().NoError(err)
	s.Require().Len(snapshots, 1)
	s.False(snapshots[0].PendingDelta.Valid)
	s.False(snapshots[0].MarkPrice.Valid)
	s.True(snapshots[0].Leverage.Valid)
}

func (s *SnapshotTestSuite) TestSchemaVersion() {
	var count int64
	s.Require().NoError(s.db.Table("system").Where("name = ?", types.SysVarSchemaVersion).Count(&count).Error)
	s.GreaterOrEqual(count, int64(1))
}

func TestSnapshot(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}
