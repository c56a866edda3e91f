package ledger

import "errors"

var (
	// ErrNilState signals the engine was used before persistence wiring.
	ErrNilState = errors.New("lending ledger: state not configured")
	// ErrNilPool signals the asset pool was never initialised.
	ErrNilPool = errors.New("lending ledger: pool not initialised")
	// ErrZeroAmount rejects non-positive operation amounts.
	ErrZeroAmount = errors.New("lending ledger: amount must be positive")
	// ErrUnknownAsset rejects operations on assets not listed in the pool.
	ErrUnknownAsset = errors.New("lending ledger: unknown asset")
	// ErrUnapprovedCollateral rejects collateral deposits of assets that are
	// not approved as collateral.
	ErrUnapprovedCollateral = errors.New("lending ledger: asset not approved as collateral")
	// ErrInsufficientBalance rejects withdrawals exceeding the caller's
	// deposited principal.
	ErrInsufficientBalance = errors.New("lending ledger: insufficient balance")
	// ErrInsufficientLiquidity rejects draws exceeding the pool's free
	// liquidity.
	ErrInsufficientLiquidity = errors.New("lending ledger: insufficient liquidity")
	// ErrInsufficientCollateral rejects collateral withdrawals exceeding the
	// position, or ones that would leave open debt undercollateralized.
	ErrInsufficientCollateral = errors.New("lending ledger: insufficient collateral")
	// ErrInsufficientCollateralRatio rejects borrows that would push the
	// health factor below the configured minimum.
	ErrInsufficientCollateralRatio = errors.New("lending ledger: collateral ratio below minimum")
	// ErrRepayExceedsDebt rejects repayments larger than the outstanding debt.
	ErrRepayExceedsDebt = errors.New("lending ledger: repay exceeds outstanding debt")
	// ErrPositionHealthy rejects liquidation of positions at or above the
	// liquidation threshold.
	ErrPositionHealthy = errors.New("lending ledger: position not eligible for liquidation")
	// ErrSameAsset rejects borrows collateralized by the borrowed asset.
	ErrSameAsset = errors.New("lending ledger: collateral and borrow asset must differ")
	// ErrUnauthorized rejects administrative calls lacking a valid token.
	ErrUnauthorized = errors.New("lending ledger: unauthorized")
	// ErrInvalidUtilization rejects rate queries outside the [0,1] range.
	ErrInvalidUtilization = errors.New("lending ledger: utilization outside [0,1]")
)
