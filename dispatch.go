package nkit

type (
	compareFunc  func(l, r Value) bool
	arithFunc    func(l *Value, r Value) bool
	selectFunc   func(l, r Value) Value
	toIntFunc    func(v Value) int64
	toUintFunc   func(v Value) uint64
	toFloatFunc  func(v Value) float64
	toBoolFunc   func(v Value) bool
	toStringFunc func(v Value, layout string) string
	constStrFunc func(v Value) string
	sizeFunc     func(v Value) int
	emptyFunc    func(v Value) bool
	clearFunc    func(v *Value)
	cloneFunc    func(v Value) Value
)

// dispatchTables holds one implementation per tag or per tag pair for every
// Value operation. Each public operation performs exactly one lookup.
type dispatchTables struct {
	eq  [tagCount][tagCount]compareFunc
	lt  [tagCount][tagCount]compareFunc
	add [tagCount][tagCount]arithFunc
	sub [tagCount][tagCount]arithFunc
	mul [tagCount][tagCount]arithFunc
	div [tagCount][tagCount]arithFunc
	min [tagCount][tagCount]selectFunc
	max [tagCount][tagCount]selectFunc

	toInt       [tagCount]toIntFunc
	toUint      [tagCount]toUintFunc
	toFloat     [tagCount]toFloatFunc
	toBool      [tagCount]toBoolFunc
	toString    [tagCount]toStringFunc
	constString [tagCount]constStrFunc
	size        [tagCount]sizeFunc
	isEmpty     [tagCount]emptyFunc
	clear       [tagCount]clearFunc
	clone       [tagCount]cloneFunc

	defaults [tagCount]Value
	mins     [tagCount]Value
	maxes    [tagCount]Value
}

var dispatch *dispatchTables

func init() {
	dispatch = newDispatchTables()
}

// coercibleTags are the right-hand tags a scalar rule accepts through a
// coercion getter. Other right-hand tags keep the default rule.
var coercibleTags = []Tag{
	TagInteger, TagUnsignedInteger, TagFloat, TagBool, TagDateTime, TagString, TagMongoOID,
}

func newDispatchTables() *dispatchTables {
	d := &dispatchTables{}
	d.registerDefaults()
	d.registerNumeric()
	d.registerDateTime()
	d.registerString()
	d.registerContainers()
	return d
}

// registerDefaults fills every slot. Tags without a rule compare by ordinal,
// treat arithmetic as a successful no-op and coerce to zero values.
func (d *dispatchTables) registerDefaults() {
	for l := range tagCount {
		for r := range tagCount {
			d.eq[l][r] = defaultEq
			d.lt[l][r] = defaultLt
			d.add[l][r] = noopArith
			d.sub[l][r] = noopArith
			d.mul[l][r] = noopArith
			d.div[l][r] = noopArith
			d.min[l][r] = keepLeft
			d.max[l][r] = keepLeft
		}
		d.toInt[l] = func(Value) int64 { return 0 }
		d.toUint[l] = func(Value) uint64 { return 0 }
		d.toFloat[l] = func(Value) float64 { return 0 }
		d.toBool[l] = func(Value) bool { return false }
		d.toString[l] = func(Value, string) string { return "" }
		d.constString[l] = func(Value) string { return "" }
		d.size[l] = func(Value) int { return 1 }
		d.isEmpty[l] = func(Value) bool { return true }
		d.clear[l] = func(v *Value) { *v = Value{} }
		d.clone[l] = func(v Value) Value { return v }
	}
	for _, t := range []Tag{TagUndefined, TagNone} {
		d.size[t] = func(Value) int { return 0 }
		d.defaults[t] = Value{tag: t}
		d.mins[t] = Value{tag: t}
		d.maxes[t] = Value{tag: t}
	}
}

// eachCoercible registers fn for the pair (l, r) for every coercible r.
func eachCoercible(l Tag, fn func(l, r Tag)) {
	for _, r := range coercibleTags {
		fn(l, r)
	}
}

func defaultEq(l, r Value) bool    { return l.tag == r.tag }
func defaultLt(l, r Value) bool    { return l.tag < r.tag }
func noopArith(*Value, Value) bool { return true }
func keepLeft(l, _ Value) Value    { return l }
