package ledger

import "math/big"

var (
	basisPoints = big.NewInt(10_000)
	wad         = mustBigInt("1000000000000000000") // 1e18 intermediate precision
)

const secondsPerYear = 31_536_000

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

// bpsShare returns floor(amount * bps / 10000). Flooring ensures the ledger
// never manufactures value from rounding.
func bpsShare(amount *big.Int, bps uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return share.Quo(share, basisPoints)
}

// interestWad returns total * rateBps/10000 * elapsed/secondsPerYear at wad
// scale, truncated. The debt book carries the sub-wad remainder across
// accruals so only whole wads are ever lost per interval.
func interestWad(total *big.Int, rateBps uint64, elapsed int64) *big.Int {
	if total == nil || total.Sign() <= 0 || rateBps == 0 || elapsed <= 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(total, new(big.Int).SetUint64(rateBps))
	num.Mul(num, big.NewInt(elapsed))
	num.Mul(num, wad)
	den := new(big.Int).Mul(basisPoints, big.NewInt(secondsPerYear))
	return num.Quo(num, den)
}

// ratFloor converts a rational to an integer by flooring towards zero for
// non-negative values.
func ratFloor(r *big.Rat) *big.Int {
	if r == nil || r.Sign() <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Quo(r.Num(), r.Denom())
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
