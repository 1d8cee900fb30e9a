package nkit

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

func floatBits(f float64) uint64 { return math.Float64bits(f) }
func bitsFloat(n uint64) float64 { return math.Float64frombits(n) }

// wide is a 65-bit signed integer used to check mixed signed/unsigned
// arithmetic before narrowing the result back to the left operand's domain.
type wide struct {
	neg bool
	mag uint64
}

func wideInt(i int64) wide {
	if i < 0 {
		return wide{neg: true, mag: uint64(-(i + 1)) + 1}
	}
	return wide{mag: uint64(i)}
}

func wideUint(u uint64) wide { return wide{mag: u} }

func (w wide) negate() wide {
	if w.mag == 0 {
		return w
	}
	return wide{neg: !w.neg, mag: w.mag}
}

func (w wide) add(o wide) (wide, bool) {
	if w.neg == o.neg {
		sum, carry := bits.Add64(w.mag, o.mag, 0)
		if carry != 0 {
			return wide{}, false
		}
		return wide{neg: w.neg && sum != 0, mag: sum}, true
	}
	if w.mag >= o.mag {
		m := w.mag - o.mag
		return wide{neg: w.neg && m != 0, mag: m}, true
	}
	return wide{neg: o.neg, mag: o.mag - w.mag}, true
}

func (w wide) mul(o wide) (wide, bool) {
	hi, lo := bits.Mul64(w.mag, o.mag)
	if hi != 0 {
		return wide{}, false
	}
	return wide{neg: w.neg != o.neg && lo != 0, mag: lo}, true
}

func (w wide) div(o wide) (wide, bool) {
	if o.mag == 0 {
		return wide{}, false
	}
	q := w.mag / o.mag
	return wide{neg: w.neg != o.neg && q != 0, mag: q}, true
}

func (w wide) int64() (int64, bool) {
	if w.neg {
		if w.mag > 1<<63 {
			return 0, false
		}
		return -int64(w.mag-1) - 1, true
	}
	if w.mag > math.MaxInt64 {
		return 0, false
	}
	return int64(w.mag), true
}

func (w wide) uint64() (uint64, bool) {
	if w.neg {
		return 0, false
	}
	return w.mag, true
}

// wideOf reads r as a signed quantity. Integer and UnsignedInteger keep their
// sign; other tags go through fallback.
func wideOf(r Value, fallback func(Value) wide) wide {
	switch r.tag {
	case TagInteger:
		return wideInt(int64(r.n))
	case TagUnsignedInteger:
		return wideUint(r.n)
	default:
		return fallback(r)
	}
}

func wideFromInt(r Value) wide  { return wideInt(r.Int64()) }
func wideFromUint(r Value) wide { return wideUint(r.Uint64()) }

type wideOp func(a, b wide) (wide, bool)

var (
	wideAdd wideOp = wide.add
	wideSub wideOp = func(a, b wide) (wide, bool) { return a.add(b.negate()) }
	wideMul wideOp = wide.mul
	wideDiv wideOp = wide.div
)

func intArith(op wideOp) arithFunc {
	return func(l *Value, r Value) bool {
		res, ok := op(wideInt(int64(l.n)), wideOf(r, wideFromInt))
		if !ok {
			return false
		}
		i, ok := res.int64()
		if !ok {
			return false
		}
		l.n = uint64(i)
		return true
	}
}

func uintArith(op wideOp) arithFunc {
	return func(l *Value, r Value) bool {
		res, ok := op(wideUint(l.n), wideOf(r, wideFromUint))
		if !ok {
			return false
		}
		u, ok := res.uint64()
		if !ok {
			return false
		}
		l.n = u
		return true
	}
}

func (d *dispatchTables) registerNumeric() {
	d.registerInteger()
	d.registerUnsigned()
	d.registerFloat()
	d.registerBool()
}

func (d *dispatchTables) registerInteger() {
	eachCoercible(TagInteger, func(l, r Tag) {
		d.eq[l][r] = func(a, b Value) bool { return int64(a.n) == b.Int64() }
		d.lt[l][r] = func(a, b Value) bool { return int64(a.n) < b.Int64() }
		d.add[l][r] = intArith(wideAdd)
		d.sub[l][r] = intArith(wideSub)
		d.mul[l][r] = intArith(wideMul)
		d.div[l][r] = intArith(wideDiv)
		d.min[l][r] = func(a, b Value) Value {
			if x := b.Int64(); x < int64(a.n) {
				return Int(x)
			}
			return a
		}
		d.max[l][r] = func(a, b Value) Value {
			if x := b.Int64(); x > int64(a.n) {
				return Int(x)
			}
			return a
		}
	})
	d.eq[TagInteger][TagUnsignedInteger] = func(a, b Value) bool {
		return int64(a.n) >= 0 && a.n == b.n
	}
	d.lt[TagInteger][TagUnsignedInteger] = func(a, b Value) bool {
		return int64(a.n) < 0 || a.n < b.n
	}

	t := TagInteger
	d.toInt[t] = func(v Value) int64 { return int64(v.n) }
	d.toUint[t] = func(v Value) uint64 { return v.n }
	d.toFloat[t] = func(v Value) float64 { return float64(int64(v.n)) }
	d.toBool[t] = func(v Value) bool { return v.n != 0 }
	d.toString[t] = func(v Value, _ string) string { return strconv.FormatInt(int64(v.n), 10) }
	d.isEmpty[t] = func(Value) bool { return false }
	d.defaults[t] = Int(0)
	d.mins[t] = Int(math.MinInt64)
	d.maxes[t] = Int(math.MaxInt64)
}

func (d *dispatchTables) registerUnsigned() {
	eachCoercible(TagUnsignedInteger, func(l, r Tag) {
		d.eq[l][r] = func(a, b Value) bool { return a.n == b.Uint64() }
		d.lt[l][r] = func(a, b Value) bool { return a.n < b.Uint64() }
		d.add[l][r] = uintArith(wideAdd)
		d.sub[l][r] = uintArith(wideSub)
		d.mul[l][r] = uintArith(wideMul)
		d.div[l][r] = uintArith(wideDiv)
		d.min[l][r] = func(a, b Value) Value {
			if x := b.Uint64(); x < a.n {
				return UInt64(x)
			}
			return a
		}
		d.max[l][r] = func(a, b Value) Value {
			if x := b.Uint64(); x > a.n {
				return UInt64(x)
			}
			return a
		}
	})
	d.eq[TagUnsignedInteger][TagInteger] = func(a, b Value) bool {
		return int64(b.n) >= 0 && a.n == b.n
	}
	d.lt[TagUnsignedInteger][TagInteger] = func(a, b Value) bool {
		return int64(b.n) >= 0 && a.n < b.n
	}

	t := TagUnsignedInteger
	d.toInt[t] = func(v Value) int64 { return int64(v.n) }
	d.toUint[t] = func(v Value) uint64 { return v.n }
	d.toFloat[t] = func(v Value) float64 { return float64(v.n) }
	d.toBool[t] = func(v Value) bool { return v.n != 0 }
	d.toString[t] = func(v Value, _ string) string { return strconv.FormatUint(v.n, 10) }
	d.isEmpty[t] = func(Value) bool { return false }
	d.defaults[t] = UInt64(0)
	d.mins[t] = UInt64(0)
	d.maxes[t] = UInt64(math.MaxUint64)
}

func (d *dispatchTables) registerFloat() {
	eachCoercible(TagFloat, func(l, r Tag) {
		d.eq[l][r] = func(a, b Value) bool { return bitsFloat(a.n) == b.Float64() }
		d.lt[l][r] = func(a, b Value) bool { return bitsFloat(a.n) < b.Float64() }
		d.add[l][r] = func(a *Value, b Value) bool {
			a.n = floatBits(bitsFloat(a.n) + b.Float64())
			return true
		}
		d.sub[l][r] = func(a *Value, b Value) bool {
			a.n = floatBits(bitsFloat(a.n) - b.Float64())
			return true
		}
		d.mul[l][r] = func(a *Value, b Value) bool {
			a.n = floatBits(bitsFloat(a.n) * b.Float64())
			return true
		}
		d.div[l][r] = func(a *Value, b Value) bool {
			x := b.Float64()
			if x == 0 {
				return false
			}
			a.n = floatBits(bitsFloat(a.n) / x)
			return true
		}
		d.min[l][r] = func(a, b Value) Value {
			if x := b.Float64(); x < bitsFloat(a.n) {
				return Float(x)
			}
			return a
		}
		d.max[l][r] = func(a, b Value) Value {
			if x := b.Float64(); x > bitsFloat(a.n) {
				return Float(x)
			}
			return a
		}
	})

	t := TagFloat
	d.toInt[t] = func(v Value) int64 { return floatToInt(bitsFloat(v.n)) }
	d.toUint[t] = func(v Value) uint64 { return floatToUint(bitsFloat(v.n)) }
	d.toFloat[t] = func(v Value) float64 { return bitsFloat(v.n) }
	d.toBool[t] = func(v Value) bool { return bitsFloat(v.n) != 0 }
	d.toString[t] = func(v Value, layout string) string {
		if layout == "" {
			return strconv.FormatFloat(bitsFloat(v.n), 'f', 6, 64)
		}
		return fmt.Sprintf(layout, bitsFloat(v.n))
	}
	d.isEmpty[t] = func(Value) bool { return false }
	d.defaults[t] = Float(0)
	d.mins[t] = Float(float64(math.MinInt64))
	d.maxes[t] = Float(float64(math.MaxInt64))
}

func (d *dispatchTables) registerBool() {
	eachCoercible(TagBool, func(l, r Tag) {
		d.eq[l][r] = func(a, b Value) bool { return int64(a.n) == b.Int64() }
		d.lt[l][r] = func(a, b Value) bool { return int64(a.n) < b.Int64() }
		d.min[l][r] = func(a, b Value) Value {
			if b.Uint64() < a.n {
				return Bool(b.Bool())
			}
			return a
		}
		d.max[l][r] = func(a, b Value) Value {
			if b.Uint64() > a.n {
				return Bool(b.Bool())
			}
			return a
		}
	})

	t := TagBool
	d.toInt[t] = func(v Value) int64 { return int64(v.n) }
	d.toUint[t] = func(v Value) uint64 { return v.n }
	d.toFloat[t] = func(v Value) float64 { return float64(v.n) }
	d.toBool[t] = func(v Value) bool { return v.n != 0 }
	d.toString[t] = func(v Value, _ string) string {
		if v.n != 0 {
			return "1"
		}
		return "0"
	}
	d.constString[t] = func(v Value) string {
		if v.n != 0 {
			return "true"
		}
		return "false"
	}
	d.isEmpty[t] = func(Value) bool { return false }
	d.defaults[t] = Bool(false)
	d.mins[t] = Bool(false)
	d.maxes[t] = Bool(true)
}

// floatToInt truncates toward zero and saturates at the int64 range.
func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// floatToUint truncates toward zero; negative input yields 0.
func floatToUint(f float64) uint64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}

// parseLeadingInt reads an optionally signed decimal prefix after leading
// spaces. Overflowing magnitudes saturate.
func parseLeadingInt(s string) (neg bool, mag uint64, ok bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		hi, lo := bits.Mul64(mag, 10)
		sum, carry := bits.Add64(lo, uint64(s[i]-'0'), 0)
		if hi != 0 || carry != 0 {
			mag = math.MaxUint64
			continue
		}
		mag = sum
	}
	return neg, mag, i > start
}

func stringToInt(s string) int64 {
	neg, mag, ok := parseLeadingInt(s)
	if !ok {
		return 0
	}
	if neg {
		w, _ := wide{neg: true, mag: min(mag, 1<<63)}.int64()
		return w
	}
	return int64(min(mag, math.MaxInt64))
}

func stringToUint(s string) uint64 {
	neg, mag, ok := parseLeadingInt(s)
	if !ok {
		return 0
	}
	if neg {
		return -mag
	}
	return mag
}

// stringToFloat parses the longest decimal floating point prefix.
func stringToFloat(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for ; k < len(s) && s[k] >= '0' && s[k] <= '9'; k++ {
		}
		if k > j {
			end = k
		}
	}
	f, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil && f == 0 {
		return 0
	}
	return f
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
