package store

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"

	"lendledger/ledger"
)

var (
	assetPrefix      = []byte("lend/asset/")
	assetIndexKey    = []byte("lend/asset/index")
	poolPrefix       = []byte("lend/pool/")
	depositPrefix    = []byte("lend/deposit/")
	debtPrefix       = []byte("lend/debt/")
	collateralPrefix = []byte("lend/collateral/")
)

// LedgerState persists ledger records in a Database using RLP encoding.
// Every lookup decodes a fresh record, so callers receive independent copies
// as the engine's State contract requires.
type LedgerState struct {
	db Database
}

// NewLedgerState wraps a Database in the engine's persistence interface.
func NewLedgerState(db Database) *LedgerState {
	return &LedgerState{db: db}
}

type storedAsset struct {
	Symbol             string
	Decimals           uint8
	Listed             bool
	CollateralApproved bool
}

type storedPool struct {
	Asset             string
	TotalDeposits     *big.Int
	TotalBorrows      *big.Int
	ReserveBalance    *big.Int
	LastBorrowRateBps uint64
	LastSupplyRateBps uint64
	LastRateUpdate    uint64
}

type storedDeposit struct {
	User      string
	Asset     string
	Principal *big.Int
}

type storedDebt struct {
	User                 string
	Asset                string
	Principal            *big.Int
	AccruedInterest      *big.Int
	InterestRemainderWad *big.Int
	LastAccrual          uint64
	AnnualRateBps        uint64
}

type storedCollateral struct {
	User   string
	Asset  string
	Amount *big.Int
}

func normaliseSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func assetKey(symbol string) []byte {
	return append(append([]byte(nil), assetPrefix...), []byte(normaliseSymbol(symbol))...)
}

func poolKey(asset string) []byte {
	return append(append([]byte(nil), poolPrefix...), []byte(normaliseSymbol(asset))...)
}

func userAssetKey(prefix []byte, user, asset string) []byte {
	key := append([]byte(nil), prefix...)
	key = append(key, []byte(strings.TrimSpace(user))...)
	key = append(key, '/')
	return append(key, []byte(normaliseSymbol(asset))...)
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func (s *LedgerState) get(key []byte, out interface{}) (bool, error) {
	ok, err := s.db.Has(key)
	if err != nil || !ok {
		return false, err
	}
	raw, err := s.db.Get(key)
	if err != nil {
		return false, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LedgerState) put(key []byte, value interface{}) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return s.db.Put(key, raw)
}

// GetAsset implements ledger.State.
func (s *LedgerState) GetAsset(symbol string) (*ledger.Asset, error) {
	var stored storedAsset
	ok, err := s.get(assetKey(symbol), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger.Asset{
		Symbol:             stored.Symbol,
		Decimals:           stored.Decimals,
		Listed:             stored.Listed,
		CollateralApproved: stored.CollateralApproved,
	}, nil
}

// PutAsset implements ledger.State. Newly seen symbols are appended to the
// asset index that backs ListAssets.
func (s *LedgerState) PutAsset(asset *ledger.Asset) error {
	if asset == nil {
		return nil
	}
	symbol := normaliseSymbol(asset.Symbol)
	known, err := s.db.Has(assetKey(symbol))
	if err != nil {
		return err
	}
	if !known {
		var index []string
		if _, err := s.get(assetIndexKey, &index); err != nil {
			return err
		}
		index = append(index, symbol)
		if err := s.put(assetIndexKey, index); err != nil {
			return err
		}
	}
	return s.put(assetKey(symbol), storedAsset{
		Symbol:             symbol,
		Decimals:           asset.Decimals,
		Listed:             asset.Listed,
		CollateralApproved: asset.CollateralApproved,
	})
}

// ListAssets implements ledger.State.
func (s *LedgerState) ListAssets() ([]*ledger.Asset, error) {
	var index []string
	if _, err := s.get(assetIndexKey, &index); err != nil {
		return nil, err
	}
	assets := make([]*ledger.Asset, 0, len(index))
	for _, symbol := range index {
		asset, err := s.GetAsset(symbol)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			assets = append(assets, asset)
		}
	}
	return assets, nil
}

// GetPool implements ledger.State.
func (s *LedgerState) GetPool(asset string) (*ledger.PoolState, error) {
	var stored storedPool
	ok, err := s.get(poolKey(asset), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger.PoolState{
		Asset:             stored.Asset,
		TotalDeposits:     nonNil(stored.TotalDeposits),
		TotalBorrows:      nonNil(stored.TotalBorrows),
		ReserveBalance:    nonNil(stored.ReserveBalance),
		LastBorrowRateBps: stored.LastBorrowRateBps,
		LastSupplyRateBps: stored.LastSupplyRateBps,
		LastRateUpdate:    int64(stored.LastRateUpdate),
	}, nil
}

// PutPool implements ledger.State.
func (s *LedgerState) PutPool(pool *ledger.PoolState) error {
	if pool == nil {
		return nil
	}
	return s.put(poolKey(pool.Asset), storedPool{
		Asset:             normaliseSymbol(pool.Asset),
		TotalDeposits:     nonNil(pool.TotalDeposits),
		TotalBorrows:      nonNil(pool.TotalBorrows),
		ReserveBalance:    nonNil(pool.ReserveBalance),
		LastBorrowRateBps: pool.LastBorrowRateBps,
		LastSupplyRateBps: pool.LastSupplyRateBps,
		LastRateUpdate:    uint64(pool.LastRateUpdate),
	})
}

// GetDeposit implements ledger.State.
func (s *LedgerState) GetDeposit(user, asset string) (*ledger.UserDeposit, error) {
	var stored storedDeposit
	ok, err := s.get(userAssetKey(depositPrefix, user, asset), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger.UserDeposit{
		User:      stored.User,
		Asset:     stored.Asset,
		Principal: nonNil(stored.Principal),
	}, nil
}

// PutDeposit implements ledger.State.
func (s *LedgerState) PutDeposit(deposit *ledger.UserDeposit) error {
	if deposit == nil {
		return nil
	}
	return s.put(userAssetKey(depositPrefix, deposit.User, deposit.Asset), storedDeposit{
		User:      strings.TrimSpace(deposit.User),
		Asset:     normaliseSymbol(deposit.Asset),
		Principal: nonNil(deposit.Principal),
	})
}

// GetDebt implements ledger.State.
func (s *LedgerState) GetDebt(user, asset string) (*ledger.DebtPosition, error) {
	var stored storedDebt
	ok, err := s.get(userAssetKey(debtPrefix, user, asset), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger.DebtPosition{
		User:                 stored.User,
		Asset:                stored.Asset,
		Principal:            nonNil(stored.Principal),
		AccruedInterest:      nonNil(stored.AccruedInterest),
		InterestRemainderWad: nonNil(stored.InterestRemainderWad),
		LastAccrual:          int64(stored.LastAccrual),
		AnnualRateBps:        stored.AnnualRateBps,
	}, nil
}

// PutDebt implements ledger.State.
func (s *LedgerState) PutDebt(position *ledger.DebtPosition) error {
	if position == nil {
		return nil
	}
	return s.put(userAssetKey(debtPrefix, position.User, position.Asset), storedDebt{
		User:                 strings.TrimSpace(position.User),
		Asset:                normaliseSymbol(position.Asset),
		Principal:            nonNil(position.Principal),
		AccruedInterest:      nonNil(position.AccruedInterest),
		InterestRemainderWad: nonNil(position.InterestRemainderWad),
		LastAccrual:          uint64(position.LastAccrual),
		AnnualRateBps:        position.AnnualRateBps,
	})
}

// GetCollateral implements ledger.State.
func (s *LedgerState) GetCollateral(user, asset string) (*ledger.CollateralPosition, error) {
	var stored storedCollateral
	ok, err := s.get(userAssetKey(collateralPrefix, user, asset), &stored)
	if err != nil || !ok {
		return nil, err
	}
	return &ledger.CollateralPosition{
		User:   stored.User,
		Asset:  stored.Asset,
		Amount: nonNil(stored.Amount),
	}, nil
}

// PutCollateral implements ledger.State.
func (s *LedgerState) PutCollateral(position *ledger.CollateralPosition) error {
	if position == nil {
		return nil
	}
	return s.put(userAssetKey(collateralPrefix, position.User, position.Asset), storedCollateral{
		User:   strings.TrimSpace(position.User),
		Asset:  normaliseSymbol(position.Asset),
		Amount: nonNil(position.Amount),
	})
}
