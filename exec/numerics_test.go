package exec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func catchTrap(f func()) (trap error) {
	defer func() {
		trap = Recover(recover())
	}()
	f()
	return nil
}

func TestI32DivS(t *testing.T) {
	assert.Equal(t, int32(-3), I32DivS(-7, 2))
	assert.Equal(t, TrapIntegerDivideByZero, catchTrap(func() { I32DivS(1, 0) }))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I32DivS(math.MinInt32, -1) }))
}

func TestI32RemS(t *testing.T) {
	assert.Equal(t, int32(-1), I32RemS(-7, 2))
	assert.Equal(t, TrapIntegerDivideByZero, catchTrap(func() { I32RemS(1, 0) }))
	// The one non-trapping overflow case.
	assert.Equal(t, int32(0), I32RemS(math.MinInt32, -1))
}

func TestI32Unsigned(t *testing.T) {
	assert.Equal(t, uint32(3), I32DivU(7, 2))
	assert.Equal(t, uint32(1), I32RemU(7, 2))
	assert.Equal(t, TrapIntegerDivideByZero, catchTrap(func() { I32DivU(1, 0) }))
	assert.Equal(t, TrapIntegerDivideByZero, catchTrap(func() { I32RemU(1, 0) }))
}

func TestI64Division(t *testing.T) {
	assert.Equal(t, int64(-3), I64DivS(-7, 2))
	assert.Equal(t, uint64(3), I64DivU(7, 2))
	assert.Equal(t, int64(0), I64RemS(math.MinInt64, -1))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I64DivS(math.MinInt64, -1) }))
	assert.Equal(t, TrapIntegerDivideByZero, catchTrap(func() { I64DivU(1, 0) }))
}

func TestFminFmax(t *testing.T) {
	assert.Equal(t, 1.0, Fmin(1, 2))
	assert.Equal(t, 2.0, Fmax(1, 2))
	assert.True(t, math.IsNaN(Fmin(math.NaN(), 1)))
	assert.True(t, math.IsNaN(Fmax(1, math.NaN())))

	// min(-0, +0) is -0; max is +0.
	assert.Equal(t, math.Signbit(Fmin(math.Copysign(0, -1), 0)), true)
	assert.Equal(t, math.Signbit(Fmax(math.Copysign(0, -1), 0)), false)
}

func TestTruncTraps(t *testing.T) {
	assert.Equal(t, int32(-3), I32TruncS(-3.7))
	assert.Equal(t, uint32(3), I32TruncU(3.7))
	assert.Equal(t, TrapInvalidConversionToInteger, catchTrap(func() { I32TruncS(math.NaN()) }))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I32TruncS(1e10) }))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I32TruncU(-1) }))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I64TruncS(1e19) }))
	assert.Equal(t, TrapIntegerOverflow, catchTrap(func() { I64TruncU(2e19) }))
}

func TestTruncSat(t *testing.T) {
	assert.Equal(t, int32(0), I32TruncSatS(math.NaN()))
	assert.Equal(t, int32(math.MaxInt32), I32TruncSatS(1e10))
	assert.Equal(t, int32(math.MinInt32), I32TruncSatS(-1e10))
	assert.Equal(t, uint32(0), I32TruncSatU(-5))
	assert.Equal(t, uint32(math.MaxUint32), I32TruncSatU(1e10))
	assert.Equal(t, int64(math.MaxInt64), I64TruncSatS(1e19))
	assert.Equal(t, uint64(math.MaxUint64), I64TruncSatU(2e19))
	assert.Equal(t, int64(-42), I64TruncSatS(-42.9))
}
