package kin

import "math"

const (
	Mint         = "kinXdEcpDQeHPEuQnqmUgtYykqKGVFq6CeVX5iAHJq6"
	QuarksPerKin = 100000
	Decimals     = 5
)

func FromQuarks(quarks uint64) uint64 {
	return quarks / QuarksPerKin
}

func ToQuarks(kin uint64) uint64 {
	return kin * QuarksPerKin
}

// FloatToQuarks converts a native kin amount to quarks. Whole kin amounts are
// exact, and any fractional part rounds up to the next whole kin, since
// payment requests are only ever made in whole kin.
func FloatToQuarks(amount float64) uint64 {
	if amount <= 0 {
		return 0
	}
	return ToQuarks(uint64(math.Ceil(amount)))
}
