package nkit

import "time"

// DefaultDateTimeLayout is used when a DateTime is formatted without a layout.
const DefaultDateTimeLayout = "2006-01-02 15:04:05"

// DateTime values are packed into 64 bits, most significant field first, so
// that integer order equals chronological order.
const (
	dtYearShift   = 48
	dtMonthShift  = 44
	dtDayShift    = 39
	dtHourShift   = 34
	dtMinuteShift = 28
	dtSecondShift = 22
	dtMicroShift  = 2

	dtYearMask   = 0xFFFF
	dtMonthMask  = 0xF
	dtDayMask    = 0x1F
	dtHourMask   = 0x1F
	dtMinuteMask = 0x3F
	dtSecondMask = 0x3F
	dtMicroMask  = 0xFFFFF

	dtMaxYear  = 0xFFFF
	dtMaxMicro = 999999
)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether y is a Gregorian leap year.
func IsLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// DaysInMonth returns the number of days in month m of year y, or 0 when m is
// out of range.
func DaysInMonth(y, m int) int {
	if m < 1 || m > 12 {
		return 0
	}
	if m == 2 && IsLeapYear(y) {
		return 29
	}
	return daysInMonth[m-1]
}

func packDateTime(y, mo, d, h, mi, s, us int) (uint64, bool) {
	if y < 0 || y > dtMaxYear || d < 1 || d > DaysInMonth(y, mo) ||
		h < 0 || h > 23 || mi < 0 || mi > 59 || s < 0 || s > 59 || us < 0 || us > dtMaxMicro {
		return 0, false
	}
	return uint64(y)<<dtYearShift | uint64(mo)<<dtMonthShift | uint64(d)<<dtDayShift |
		uint64(h)<<dtHourShift | uint64(mi)<<dtMinuteShift | uint64(s)<<dtSecondShift |
		uint64(us)<<dtMicroShift, true
}

// DateTime returns a DateTime value, or Undefined when a field is out of range.
func DateTime(year, month, day, hour, minute, second, microsecond int) Value {
	n, ok := packDateTime(year, month, day, hour, minute, second, microsecond)
	if !ok {
		return Undefined()
	}
	return Value{tag: TagDateTime, n: n}
}

// DateTimeFromTime converts t, keeping its wall clock fields.
func DateTimeFromTime(t time.Time) Value {
	return DateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000)
}

// DateTimeFromTimestamp converts Unix seconds to local wall clock time.
func DateTimeFromTimestamp(sec int64) Value {
	return DateTimeFromTime(time.Unix(sec, 0))
}

// DateTimeFromString parses s with a time layout (DefaultDateTimeLayout when
// empty). Unparsable input yields Undefined.
func DateTimeFromString(s, layout string) Value {
	if layout == "" {
		layout = DefaultDateTimeLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Undefined()
	}
	return DateTimeFromTime(t)
}

const (
	iso8601Extended = "2006-01-02T15:04:05"
	iso8601Basic    = "20060102T150405"
)

// DateTimeFromISO8601 parses either the extended ("1998-07-17T14:08:55") or
// the basic ("19980717T140855") ISO 8601 form. Unparsable input yields
// Undefined.
func DateTimeFromISO8601(s string) Value {
	if len(s) > 4 && s[4] == '-' {
		return DateTimeFromString(s, iso8601Extended)
	}
	return DateTimeFromString(s, iso8601Basic)
}

// LocalNow returns the current local time.
func LocalNow() Value { return DateTimeFromTime(time.Now()) }

// GmtNow returns the current UTC time.
func GmtNow() Value { return DateTimeFromTime(time.Now().UTC()) }

func (v Value) dtField(shift, mask uint64) int {
	if v.tag != TagDateTime {
		return 0
	}
	return int(v.n >> shift & mask)
}

func (v Value) Year() int        { return v.dtField(dtYearShift, dtYearMask) }
func (v Value) Month() int       { return v.dtField(dtMonthShift, dtMonthMask) }
func (v Value) Day() int         { return v.dtField(dtDayShift, dtDayMask) }
func (v Value) Hour() int        { return v.dtField(dtHourShift, dtHourMask) }
func (v Value) Minute() int      { return v.dtField(dtMinuteShift, dtMinuteMask) }
func (v Value) Second() int      { return v.dtField(dtSecondShift, dtSecondMask) }
func (v Value) Microsecond() int { return v.dtField(dtMicroShift, dtMicroMask) }

// Time returns the DateTime as a time.Time in loc (time.Local when nil).
// The zero time is returned for other tags.
func (v Value) Time(loc *time.Location) time.Time {
	if v.tag != TagDateTime {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(v.Year(), time.Month(v.Month()), v.Day(), v.Hour(), v.Minute(), v.Second(),
		v.Microsecond()*1000, loc)
}

// Timestamp interprets the DateTime as local time and returns Unix seconds.
func (v Value) Timestamp() int64 {
	if v.tag != TagDateTime {
		return 0
	}
	return v.Time(time.Local).Unix()
}

// IsLeap reports whether the DateTime falls in a leap year.
func (v Value) IsLeap() bool { return v.tag == TagDateTime && IsLeapYear(v.Year()) }

// Date returns the DateTime truncated to midnight.
func (v Value) Date() Value {
	if v.tag != TagDateTime {
		return Undefined()
	}
	return DateTime(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0)
}

// TimeOfDay returns the clock fields of a DateTime.
func (v Value) TimeOfDay() (hour, minute, second, microsecond int) {
	return v.Hour(), v.Minute(), v.Second(), v.Microsecond()
}

// AddDays shifts the DateTime in place by n calendar days.
func (v *Value) AddDays(n int) bool {
	return v.shiftDateTime(func(t time.Time) time.Time { return t.AddDate(0, 0, n) })
}

// AddSeconds shifts the DateTime in place by n seconds.
func (v *Value) AddSeconds(n int) bool {
	return v.shiftDateTime(func(t time.Time) time.Time { return t.Add(time.Duration(n) * time.Second) })
}

// AddHours shifts the DateTime in place by n hours.
func (v *Value) AddHours(n int) bool {
	return v.shiftDateTime(func(t time.Time) time.Time { return t.Add(time.Duration(n) * time.Hour) })
}

// AddMinutes shifts the DateTime in place by n minutes.
func (v *Value) AddMinutes(n int) bool {
	return v.shiftDateTime(func(t time.Time) time.Time { return t.Add(time.Duration(n) * time.Minute) })
}

func (v *Value) shiftDateTime(fn func(time.Time) time.Time) bool {
	if v.tag != TagDateTime {
		return false
	}
	n := DateTimeFromTime(fn(v.Time(time.UTC)))
	if n.tag != TagDateTime {
		return false
	}
	v.n = n.n
	return true
}

// SetHour replaces the hour field. It fails when h is out of range.
func (v *Value) SetHour(h int) bool { return v.setDTField(h, 23, dtHourShift, dtHourMask) }

// SetMinute replaces the minute field. It fails when m is out of range.
func (v *Value) SetMinute(m int) bool { return v.setDTField(m, 59, dtMinuteShift, dtMinuteMask) }

// SetSecond replaces the second field. It fails when s is out of range.
func (v *Value) SetSecond(s int) bool { return v.setDTField(s, 59, dtSecondShift, dtSecondMask) }

func (v *Value) setDTField(x, limit int, shift, mask uint64) bool {
	if v.tag != TagDateTime || x < 0 || x > limit {
		return false
	}
	v.n = v.n&^(mask<<shift) | uint64(x)<<shift
	return true
}

func (d *dispatchTables) registerDateTime() {
	t := TagDateTime
	eachCoercible(t, func(l, r Tag) {
		d.eq[l][r] = func(a, b Value) bool { return a.n == b.Uint64() }
		d.lt[l][r] = func(a, b Value) bool { return a.n < b.Uint64() }
	})
	d.min[t][t] = func(a, b Value) Value {
		if b.n < a.n {
			return b
		}
		return a
	}
	d.max[t][t] = func(a, b Value) Value {
		if b.n > a.n {
			return b
		}
		return a
	}

	d.toInt[t] = func(v Value) int64 { return int64(v.n) }
	d.toUint[t] = func(v Value) uint64 { return v.n }
	d.toFloat[t] = func(v Value) float64 { return float64(int64(v.n)) }
	d.toBool[t] = func(v Value) bool { return v.n != 0 }
	d.toString[t] = func(v Value, layout string) string {
		if layout == "" {
			layout = DefaultDateTimeLayout
		}
		if v.n == 0 {
			return time.Time{}.Format(layout)
		}
		return v.Time(time.UTC).Format(layout)
	}
	d.isEmpty[t] = func(Value) bool { return false }
	d.defaults[t] = Value{tag: t}
	d.mins[t] = Value{tag: t}
	d.maxes[t] = Value{tag: t, n: ^uint64(0)}
}
