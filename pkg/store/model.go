// Package store persists the purchase index and the sale schedule in
// PostgreSQL.
package store

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
)

// PurchaseEventDao maps to the 'purchase_events' table. A log is identified by
// its transaction hash and log index.
type PurchaseEventDao struct {
	bun.BaseModel `bun:"table:purchase_events,alias:pe"`
	ID            int64     `bun:"id,pk,autoincrement"`
	TxHash        string    `bun:"tx_hash,notnull,unique:uq_purchase_events_log,type:varchar(66)"`
	LogIndex      uint      `bun:"log_index,notnull,unique:uq_purchase_events_log"`
	Buyer         string    `bun:"buyer,notnull,type:varchar(42)"`
	USDCIn        string    `bun:"usdc_in,notnull,type:numeric(78,0)"`
	TokensOut     string    `bun:"tokens_out,notnull,type:numeric(78,0)"`
	BlockNumber   uint64    `bun:"block_number,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// IndexStateDao maps to the 'index_state' table, one cursor per index.
type IndexStateDao struct {
	bun.BaseModel `bun:"table:index_state,alias:ix"`
	Name          string    `bun:"name,pk,type:varchar(64)"`
	LastBlock     uint64    `bun:"last_block,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// SaleScheduleDao maps to the single-row 'sale_schedule' table.
type SaleScheduleDao struct {
	bun.BaseModel `bun:"table:sale_schedule,alias:ss"`
	ID            int       `bun:"id,pk"`
	StartsAt      time.Time `bun:"starts_at,notnull"`
	EndsAt        time.Time `bun:"ends_at,notnull"`
	UpdatedBy     string    `bun:"updated_by,notnull,type:varchar(42)"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

const scheduleRowID = 1

func toPurchaseEventDao(e presale.PurchaseEvent) *PurchaseEventDao {
	return &PurchaseEventDao{
		TxHash:      e.TxHash.Hex(),
		LogIndex:    e.LogIndex,
		Buyer:       strings.ToLower(e.Buyer.Hex()),
		USDCIn:      bigString(e.USDCIn),
		TokensOut:   bigString(e.TokensOut),
		BlockNumber: e.BlockNumber,
	}
}

func fromPurchaseEventDao(dao *PurchaseEventDao) (presale.PurchaseEvent, error) {
	usdcIn, ok := new(big.Int).SetString(dao.USDCIn, 10)
	if !ok {
		return presale.PurchaseEvent{}, fmt.Errorf("invalid usdc_in %q for %s/%d", dao.USDCIn, dao.TxHash, dao.LogIndex)
	}
	tokensOut, ok := new(big.Int).SetString(dao.TokensOut, 10)
	if !ok {
		return presale.PurchaseEvent{}, fmt.Errorf("invalid tokens_out %q for %s/%d", dao.TokensOut, dao.TxHash, dao.LogIndex)
	}
	return presale.PurchaseEvent{
		Buyer:       common.HexToAddress(dao.Buyer),
		USDCIn:      usdcIn,
		TokensOut:   tokensOut,
		BlockNumber: dao.BlockNumber,
		TxHash:      common.HexToHash(dao.TxHash),
		LogIndex:    dao.LogIndex,
	}, nil
}

func toSaleScheduleDao(s *schedule.Schedule) *SaleScheduleDao {
	return &SaleScheduleDao{
		ID:        scheduleRowID,
		StartsAt:  s.StartsAt.UTC(),
		EndsAt:    s.EndsAt.UTC(),
		UpdatedBy: strings.ToLower(s.UpdatedBy.Hex()),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func fromSaleScheduleDao(dao *SaleScheduleDao) *schedule.Schedule {
	return &schedule.Schedule{
		StartsAt:  dao.StartsAt,
		EndsAt:    dao.EndsAt,
		UpdatedBy: common.HexToAddress(dao.UpdatedBy),
		UpdatedAt: dao.UpdatedAt,
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
