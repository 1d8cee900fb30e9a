package nkit

// Equal reports whether v equals o under the rules of v's tag.
func (v Value) Equal(o Value) bool { return dispatch.eq[v.tag][o.tag](v, o) }

func (v Value) NotEqual(o Value) bool { return !v.Equal(o) }

// Less reports whether v orders before o. Tags without a rule for the pair
// are ordered by tag ordinal.
func (v Value) Less(o Value) bool { return dispatch.lt[v.tag][o.tag](v, o) }

func (v Value) LessOrEqual(o Value) bool    { return v.Less(o) || v.Equal(o) }
func (v Value) Greater(o Value) bool        { return !v.LessOrEqual(o) }
func (v Value) GreaterOrEqual(o Value) bool { return !v.Less(o) }

// Compare returns -1, 0 or +1.
func (v Value) Compare(o Value) int {
	switch {
	case v.Less(o):
		return -1
	case v.Equal(o):
		return 0
	default:
		return 1
	}
}

// AddAssign adds o to v in place. Shared payloads are mutated, so the change
// is visible through every alias. A failed operation leaves v Undefined.
func (v *Value) AddAssign(o Value) { v.apply(&dispatch.add, o) }

// SubAssign subtracts o from v in place.
func (v *Value) SubAssign(o Value) { v.apply(&dispatch.sub, o) }

// MulAssign multiplies v by o in place.
func (v *Value) MulAssign(o Value) { v.apply(&dispatch.mul, o) }

// DivAssign divides v by o in place.
func (v *Value) DivAssign(o Value) { v.apply(&dispatch.div, o) }

func (v *Value) apply(table *[tagCount][tagCount]arithFunc, o Value) {
	if !table[v.tag][o.tag](v, o) {
		*v = Value{}
	}
}

// Add returns v + o without touching v's payload. The result is Undefined
// when it cannot be represented in v's domain.
func (v Value) Add(o Value) Value {
	r := v.Clone()
	r.AddAssign(o)
	return r
}

func (v Value) Sub(o Value) Value {
	r := v.Clone()
	r.SubAssign(o)
	return r
}

func (v Value) Mul(o Value) Value {
	r := v.Clone()
	r.MulAssign(o)
	return r
}

func (v Value) Div(o Value) Value {
	r := v.Clone()
	r.DivAssign(o)
	return r
}

// Min returns the smaller of v and o, in v's tag when a rule exists.
func (v Value) Min(o Value) Value { return dispatch.min[v.tag][o.tag](v, o) }

// Max returns the larger of v and o, in v's tag when a rule exists.
func (v Value) Max(o Value) Value { return dispatch.max[v.tag][o.tag](v, o) }
