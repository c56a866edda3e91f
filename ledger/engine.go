package ledger

import (
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"lendledger/events"
	"lendledger/oracle"
)

// State is the persistence surface the engine operates against. Lookups must
// return defensive copies (or freshly decoded records) so the engine can
// validate and compute without mutating durable state; nothing is persisted
// until the corresponding Put. Lookups return nil without error when no
// record exists.
type State interface {
	GetAsset(symbol string) (*Asset, error)
	PutAsset(asset *Asset) error
	ListAssets() ([]*Asset, error)

	GetPool(asset string) (*PoolState, error)
	PutPool(pool *PoolState) error

	GetDeposit(user, asset string) (*UserDeposit, error)
	PutDeposit(deposit *UserDeposit) error

	GetDebt(user, asset string) (*DebtPosition, error)
	PutDebt(position *DebtPosition) error

	GetCollateral(user, asset string) (*CollateralPosition, error)
	PutCollateral(position *CollateralPosition) error
}

// Engine orchestrates the primary state transitions for the lending ledger:
// deposits, withdrawals, cross-currency borrows, repayments, interest
// accrual, rate updates and liquidations. Every public mutating operation
// validates fully before persisting anything, so a failed call leaves state
// untouched.
type Engine struct {
	state   State
	vault   *Vault
	model   *InterestModel
	params  RiskParameters
	emitter events.Emitter
	logger  *slog.Logger
	auth    Authorizer
	nowFn   func() time.Time

	mu        sync.Mutex
	poolLocks map[string]*sync.Mutex
	debtBooks map[string]*DebtBook
}

// NewEngine constructs a lending engine configured with the injected price
// feed and risk parameters. Persistence, events, and admin authorization are
// wired through the Set* methods before use.
func NewEngine(feed oracle.Feed, params RiskParameters) *Engine {
	return &Engine{
		vault:     NewVault(feed),
		model:     DefaultInterestModel.Clone(),
		params:    params,
		emitter:   events.NoopEmitter{},
		nowFn:     func() time.Time { return time.Now().UTC() },
		poolLocks: make(map[string]*sync.Mutex),
		debtBooks: make(map[string]*DebtBook),
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state State) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetLogger configures the structured logger used for operation outcomes.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if e == nil {
		return
	}
	e.logger = logger
}

// SetAuthorizer configures the admin authorization capability. When nil,
// every administrative call fails with ErrUnauthorized.
func (e *Engine) SetAuthorizer(auth Authorizer) {
	if e == nil {
		return
	}
	e.auth = auth
}

// SetInterestModel configures the interest rate model used on rate updates.
func (e *Engine) SetInterestModel(model *InterestModel) {
	if e == nil {
		return
	}
	if model != nil {
		e.model = model.Clone()
	} else {
		e.model = nil
	}
}

// SetNowFunc overrides the time source used for interest accrual. Nil
// restores the default UTC clock.
func (e *Engine) SetNowFunc(now func() time.Time) {
	if e == nil {
		return
	}
	if now == nil {
		e.nowFn = func() time.Time { return time.Now().UTC() }
		return
	}
	e.nowFn = now
}

// Vault exposes the valuation component for read-only callers.
func (e *Engine) Vault() *Vault {
	if e == nil {
		return nil
	}
	return e.vault
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().UTC().Unix()
	}
	return e.nowFn().Unix()
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) log() *slog.Logger {
	if e != nil && e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

// lockAssets acquires the pool locks for the supplied assets in sorted order
// so concurrent operations touching two pools cannot deadlock. The returned
// function releases the locks in reverse order.
func (e *Engine) lockAssets(symbols ...string) func() {
	unique := make(map[string]struct{}, len(symbols))
	ordered := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		normalized := normaliseAsset(symbol)
		if normalized == "" {
			continue
		}
		if _, seen := unique[normalized]; seen {
			continue
		}
		unique[normalized] = struct{}{}
		ordered = append(ordered, normalized)
	}
	sort.Strings(ordered)

	locks := make([]*sync.Mutex, 0, len(ordered))
	e.mu.Lock()
	for _, symbol := range ordered {
		lock, ok := e.poolLocks[symbol]
		if !ok {
			lock = &sync.Mutex{}
			e.poolLocks[symbol] = lock
		}
		locks = append(locks, lock)
	}
	e.mu.Unlock()

	for _, lock := range locks {
		lock.Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func (e *Engine) debtBook(asset string) *DebtBook {
	e.mu.Lock()
	defer e.mu.Unlock()
	book, ok := e.debtBooks[normaliseAsset(asset)]
	if !ok || book == nil {
		book = NewDebtBook()
		e.debtBooks[normaliseAsset(asset)] = book
	}
	return book
}

func normaliseAsset(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (e *Engine) listedAsset(symbol string) (*Asset, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	asset, err := e.state.GetAsset(normaliseAsset(symbol))
	if err != nil {
		return nil, err
	}
	if asset == nil || !asset.Listed {
		return nil, ErrUnknownAsset
	}
	return asset, nil
}

func (e *Engine) ensurePool(asset string) (*PoolState, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	pool, err := e.state.GetPool(normaliseAsset(asset))
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, ErrNilPool
	}
	pool.ensureDefaults()
	return pool, nil
}

func (e *Engine) ensureDeposit(user, asset string) (*UserDeposit, error) {
	deposit, err := e.state.GetDeposit(user, normaliseAsset(asset))
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		deposit = &UserDeposit{User: user, Asset: normaliseAsset(asset)}
	}
	if deposit.Principal == nil {
		deposit.Principal = big.NewInt(0)
	}
	return deposit, nil
}

func (e *Engine) ensureDebt(user, asset string) (*DebtPosition, error) {
	position, err := e.state.GetDebt(user, normaliseAsset(asset))
	if err != nil {
		return nil, err
	}
	if position == nil {
		position = &DebtPosition{User: user, Asset: normaliseAsset(asset), LastAccrual: e.now()}
	}
	position.ensureDefaults()
	return position, nil
}

func (e *Engine) ensureCollateral(user, asset string) (*CollateralPosition, error) {
	position, err := e.state.GetCollateral(user, normaliseAsset(asset))
	if err != nil {
		return nil, err
	}
	if position == nil {
		position = &CollateralPosition{User: user, Asset: normaliseAsset(asset)}
	}
	if position.Amount == nil {
		position.Amount = big.NewInt(0)
	}
	return position, nil
}

// accrueDebt compounds the position at its current rate snapshot and then
// refreshes the snapshot to the pool's latest borrow rate, so rate changes
// only affect interest accruing after the accrual.
func (e *Engine) accrueDebt(pool *PoolState, position *DebtPosition, now int64) *big.Int {
	delta := e.debtBook(position.Asset).Accrue(position, now)
	position.AnnualRateBps = pool.LastBorrowRateBps
	return delta
}

func availableLiquidity(pool *PoolState) *big.Int {
	liquidity := new(big.Int).Sub(pool.TotalDeposits, pool.TotalBorrows)
	if liquidity.Sign() < 0 {
		return big.NewInt(0)
	}
	return liquidity
}

// Deposit supplies liquidity to the asset's pool, crediting the caller's
// deposit principal.
func (e *Engine) Deposit(user, asset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if _, err := e.listedAsset(asset); err != nil {
		return err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return err
	}
	deposit, err := e.ensureDeposit(user, asset)
	if err != nil {
		return err
	}

	deposit.Principal = new(big.Int).Add(deposit.Principal, amount)
	pool.TotalDeposits = new(big.Int).Add(pool.TotalDeposits, amount)

	if err := e.state.PutDeposit(deposit); err != nil {
		return err
	}
	if err := e.state.PutPool(pool); err != nil {
		return err
	}

	e.emit(events.Deposited{User: user, Asset: pool.Asset, Amount: amount})
	e.log().Debug("deposit", "user", user, "asset", pool.Asset, "amount", amount.String())
	return nil
}

// Withdraw redeems deposited liquidity. The caller cannot withdraw more than
// their principal nor more than the pool's free liquidity.
func (e *Engine) Withdraw(user, asset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if _, err := e.listedAsset(asset); err != nil {
		return err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return err
	}
	deposit, err := e.ensureDeposit(user, asset)
	if err != nil {
		return err
	}
	if deposit.Principal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if availableLiquidity(pool).Cmp(amount) < 0 {
		return ErrInsufficientLiquidity
	}

	deposit.Principal = new(big.Int).Sub(deposit.Principal, amount)
	pool.TotalDeposits = new(big.Int).Sub(pool.TotalDeposits, amount)

	if err := e.state.PutDeposit(deposit); err != nil {
		return err
	}
	if err := e.state.PutPool(pool); err != nil {
		return err
	}

	e.emit(events.Withdrawn{User: user, Asset: pool.Asset, Amount: amount})
	e.log().Debug("withdraw", "user", user, "asset", pool.Asset, "amount", amount.String())
	return nil
}

// AddCollateral locks collateral for the user. The asset must be approved as
// collateral; it does not need to be listed for lending.
func (e *Engine) AddCollateral(user, asset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	record, err := e.state.GetAsset(normaliseAsset(asset))
	if err != nil {
		return err
	}
	if record == nil {
		return ErrUnknownAsset
	}
	if !record.CollateralApproved {
		return ErrUnapprovedCollateral
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	position, err := e.ensureCollateral(user, asset)
	if err != nil {
		return err
	}
	position.Amount = new(big.Int).Add(position.Amount, amount)
	if err := e.state.PutCollateral(position); err != nil {
		return err
	}

	e.emit(events.CollateralAdded{User: user, Asset: record.Symbol, Amount: amount})
	e.log().Debug("collateral added", "user", user, "asset", record.Symbol, "amount", amount.String())
	return nil
}

// RemoveCollateral releases collateral back to the user provided every open
// debt position it secures stays at or above the liquidation threshold.
func (e *Engine) RemoveCollateral(user, asset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	record, err := e.state.GetAsset(normaliseAsset(asset))
	if err != nil {
		return err
	}
	if record == nil {
		return ErrUnknownAsset
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	position, err := e.ensureCollateral(user, asset)
	if err != nil {
		return err
	}
	if position.Amount.Cmp(amount) < 0 {
		return ErrInsufficientCollateral
	}
	remaining := new(big.Int).Sub(position.Amount, amount)

	// Every open debt secured by this collateral must stay above the
	// liquidation threshold after the withdrawal.
	assets, err := e.state.ListAssets()
	if err != nil {
		return err
	}
	now := e.now()
	for _, debtAsset := range assets {
		if debtAsset == nil || debtAsset.Symbol == record.Symbol {
			continue
		}
		debt, err := e.state.GetDebt(user, debtAsset.Symbol)
		if err != nil {
			return err
		}
		if debt == nil {
			continue
		}
		debt.ensureDefaults()
		e.debtBook(debtAsset.Symbol).Accrue(debt, now)
		if debt.TotalDebt().Sign() == 0 {
			continue
		}
		health, err := e.healthFactor(remaining, record, debt.TotalDebt(), debtAsset)
		if err != nil {
			return err
		}
		if health.Cmp(new(big.Int).SetUint64(e.params.LiquidationThresholdBps)) < 0 {
			return ErrInsufficientCollateral
		}
	}

	position.Amount = remaining
	if err := e.state.PutCollateral(position); err != nil {
		return err
	}

	e.emit(events.CollateralRemoved{User: user, Asset: record.Symbol, Amount: amount})
	e.log().Debug("collateral removed", "user", user, "asset", record.Symbol, "amount", amount.String())
	return nil
}

// Borrow draws liquidity from the borrow asset's pool against collateral
// denominated in a different asset. The post-borrow health factor must stay
// at or above the pool's minimum collateralization ratio.
func (e *Engine) Borrow(user, collateralAsset, borrowAsset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if normaliseAsset(collateralAsset) == normaliseAsset(borrowAsset) {
		return ErrSameAsset
	}
	borrowRecord, err := e.listedAsset(borrowAsset)
	if err != nil {
		return err
	}
	collateralRecord, err := e.state.GetAsset(normaliseAsset(collateralAsset))
	if err != nil {
		return err
	}
	if collateralRecord == nil {
		return ErrUnknownAsset
	}
	unlock := e.lockAssets(collateralAsset, borrowAsset)
	defer unlock()

	pool, err := e.ensurePool(borrowAsset)
	if err != nil {
		return err
	}
	if availableLiquidity(pool).Cmp(amount) < 0 {
		return ErrInsufficientLiquidity
	}

	now := e.now()
	debt, err := e.ensureDebt(user, borrowAsset)
	if err != nil {
		return err
	}
	e.accrueDebt(pool, debt, now)

	collateral, err := e.ensureCollateral(user, collateralAsset)
	if err != nil {
		return err
	}
	projected := new(big.Int).Add(debt.TotalDebt(), amount)
	health, err := e.healthFactor(collateral.Amount, collateralRecord, projected, borrowRecord)
	if err != nil {
		return err
	}
	if health.Cmp(new(big.Int).SetUint64(e.params.MinCollateralRatioBps)) < 0 {
		return ErrInsufficientCollateralRatio
	}

	if err := e.debtBook(borrowAsset).Increase(debt, amount, now); err != nil {
		return err
	}
	pool.TotalBorrows = new(big.Int).Add(pool.TotalBorrows, amount)

	if err := e.state.PutDebt(debt); err != nil {
		return err
	}
	if err := e.state.PutPool(pool); err != nil {
		return err
	}

	e.emit(events.Borrowed{
		User:            user,
		CollateralAsset: collateralRecord.Symbol,
		BorrowAsset:     pool.Asset,
		Amount:          amount,
	})
	e.log().Debug("borrow", "user", user, "collateral", collateralRecord.Symbol,
		"asset", pool.Asset, "amount", amount.String(), "healthBps", health.String())
	return nil
}

// Repay reduces the caller's outstanding debt, interest first. TotalBorrows
// shrinks only by the principal portion; the protocol retains its reserve
// factor share of the interest paid.
func (e *Engine) Repay(user, asset string, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if _, err := e.listedAsset(asset); err != nil {
		return err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return err
	}
	debt, err := e.state.GetDebt(user, normaliseAsset(asset))
	if err != nil {
		return err
	}
	if debt == nil {
		return ErrRepayExceedsDebt
	}
	debt.ensureDefaults()

	now := e.now()
	e.accrueDebt(pool, debt, now)
	interestPaid, principalPaid, err := e.debtBook(asset).Decrease(debt, amount, now)
	if err != nil {
		return err
	}

	pool.TotalBorrows = new(big.Int).Sub(pool.TotalBorrows, principalPaid)
	if reserveShare := bpsShare(interestPaid, e.params.ReserveFactorBps); reserveShare.Sign() > 0 {
		pool.ReserveBalance = new(big.Int).Add(pool.ReserveBalance, reserveShare)
	}

	if err := e.state.PutDebt(debt); err != nil {
		return err
	}
	if err := e.state.PutPool(pool); err != nil {
		return err
	}

	e.emit(events.Repaid{
		User:      user,
		Asset:     pool.Asset,
		Amount:    amount,
		Interest:  interestPaid,
		Principal: principalPaid,
	})
	e.log().Debug("repay", "user", user, "asset", pool.Asset,
		"amount", amount.String(), "interest", interestPaid.String())
	return nil
}

// AccrueFor compounds interest on the user's debt position without any
// balance transfer. Callable by anyone (commonly an automated keeper) and
// idempotent within a timestamp.
func (e *Engine) AccrueFor(user, asset string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if _, err := e.listedAsset(asset); err != nil {
		return err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return err
	}
	debt, err := e.state.GetDebt(user, normaliseAsset(asset))
	if err != nil {
		return err
	}
	if debt == nil {
		return nil
	}
	debt.ensureDefaults()
	e.accrueDebt(pool, debt, e.now())
	return e.state.PutDebt(debt)
}

// UpdateRates resamples the pool's utilization through the interest model and
// stores the new rates. Already-accrued interest is unaffected; positions
// pick up the new rate at their next accrual.
func (e *Engine) UpdateRates(asset string) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if _, err := e.listedAsset(asset); err != nil {
		return err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return err
	}
	borrowBps, supplyBps, err := e.model.Rates(utilization(pool), e.params.ReserveFactorBps)
	if err != nil {
		return err
	}
	pool.LastBorrowRateBps = borrowBps
	pool.LastSupplyRateBps = supplyBps
	pool.LastRateUpdate = e.now()
	if err := e.state.PutPool(pool); err != nil {
		return err
	}

	e.emit(events.RatesUpdated{Asset: pool.Asset, BorrowRateBps: borrowBps, SupplyRateBps: supplyBps})
	e.log().Debug("rates updated", "asset", pool.Asset, "borrowBps", borrowBps, "supplyBps", supplyBps)
	return nil
}

func utilization(pool *PoolState) *big.Rat {
	if pool == nil || pool.TotalDeposits == nil || pool.TotalDeposits.Sign() == 0 {
		return new(big.Rat)
	}
	if pool.TotalBorrows == nil || pool.TotalBorrows.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(pool.TotalBorrows, pool.TotalDeposits)
}

// GetUserPosition reports the user's deposited principal and current total
// debt for the asset. The debt figure is accrued to now in memory; durable
// state is not touched.
func (e *Engine) GetUserPosition(user, asset string) (deposited, borrowed *big.Int, err error) {
	if e == nil || e.state == nil {
		return nil, nil, ErrNilState
	}
	if _, err := e.listedAsset(asset); err != nil {
		return nil, nil, err
	}
	deposit, err := e.ensureDeposit(user, asset)
	if err != nil {
		return nil, nil, err
	}
	debt, err := e.state.GetDebt(user, normaliseAsset(asset))
	if err != nil {
		return nil, nil, err
	}
	borrowed = big.NewInt(0)
	if debt != nil {
		view := debt.Clone()
		view.ensureDefaults()
		e.debtBook(asset).Accrue(view, e.now())
		borrowed = view.TotalDebt()
	}
	return deposit.Principal, borrowed, nil
}

// GetUtilizationRate returns totalBorrows / totalDeposits for the asset, zero
// when the pool holds no deposits.
func (e *Engine) GetUtilizationRate(asset string) (*big.Rat, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if _, err := e.listedAsset(asset); err != nil {
		return nil, err
	}
	pool, err := e.ensurePool(asset)
	if err != nil {
		return nil, err
	}
	return utilization(pool), nil
}

// GetAvailableLiquidity returns the pool's undrawn deposits.
func (e *Engine) GetAvailableLiquidity(asset string) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if _, err := e.listedAsset(asset); err != nil {
		return nil, err
	}
	pool, err := e.ensurePool(asset)
	if err != nil {
		return nil, err
	}
	return availableLiquidity(pool), nil
}

func (e *Engine) authorize(token string) error {
	if e == nil || e.auth == nil || !e.auth.Authorize(token) {
		return ErrUnauthorized
	}
	return nil
}

// ListAsset registers an asset as tradeable in the pool and initialises its
// pool state. Administrative.
func (e *Engine) ListAsset(token, symbol string, decimals uint8) error {
	if err := e.authorize(token); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	normalized := normaliseAsset(symbol)
	if normalized == "" {
		return ErrUnknownAsset
	}
	unlock := e.lockAssets(normalized)
	defer unlock()

	asset, err := e.state.GetAsset(normalized)
	if err != nil {
		return err
	}
	if asset == nil {
		asset = &Asset{Symbol: normalized, Decimals: decimals}
	}
	asset.Listed = true
	asset.Decimals = decimals
	if err := e.state.PutAsset(asset); err != nil {
		return err
	}

	pool, err := e.state.GetPool(normalized)
	if err != nil {
		return err
	}
	if pool == nil {
		pool = &PoolState{Asset: normalized}
		pool.ensureDefaults()
		if err := e.state.PutPool(pool); err != nil {
			return err
		}
	}
	e.log().Info("asset listed", "asset", normalized, "decimals", decimals)
	return nil
}

// ApproveCollateral marks a registered asset as usable to secure borrows.
// Administrative.
func (e *Engine) ApproveCollateral(token, symbol string) error {
	if err := e.authorize(token); err != nil {
		return err
	}
	if e.state == nil {
		return ErrNilState
	}
	normalized := normaliseAsset(symbol)
	unlock := e.lockAssets(normalized)
	defer unlock()

	asset, err := e.state.GetAsset(normalized)
	if err != nil {
		return err
	}
	if asset == nil {
		return ErrUnknownAsset
	}
	asset.CollateralApproved = true
	if err := e.state.PutAsset(asset); err != nil {
		return err
	}
	e.log().Info("collateral approved", "asset", normalized)
	return nil
}

// SetDebtBook registers the debt accounting backend for an asset.
// Administrative; a nil book restores the default.
func (e *Engine) SetDebtBook(token, asset string, book *DebtBook) error {
	if err := e.authorize(token); err != nil {
		return err
	}
	normalized := normaliseAsset(asset)
	if normalized == "" {
		return ErrUnknownAsset
	}
	if book == nil {
		book = NewDebtBook()
	}
	e.mu.Lock()
	e.debtBooks[normalized] = book
	e.mu.Unlock()
	return nil
}

// WithdrawReserves releases accrued protocol reserves to the recipient.
// Administrative. The withdrawn amount is returned.
func (e *Engine) WithdrawReserves(token, asset, recipient string, amount *big.Int) (*big.Int, error) {
	if err := e.authorize(token); err != nil {
		return nil, err
	}
	if e.state == nil {
		return nil, ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if _, err := e.listedAsset(asset); err != nil {
		return nil, err
	}
	unlock := e.lockAssets(asset)
	defer unlock()

	pool, err := e.ensurePool(asset)
	if err != nil {
		return nil, err
	}
	if pool.ReserveBalance.Cmp(amount) < 0 {
		return nil, ErrInsufficientLiquidity
	}
	pool.ReserveBalance = new(big.Int).Sub(pool.ReserveBalance, amount)
	if err := e.state.PutPool(pool); err != nil {
		return nil, err
	}
	e.log().Info("reserves withdrawn", "asset", pool.Asset, "recipient", recipient, "amount", amount.String())
	return new(big.Int).Set(amount), nil
}
