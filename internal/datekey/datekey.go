// Package datekey provides the canonical YYYY-MM-DD day key used for all
// day-level comparisons.
package datekey

import "time"

// Layout is the canonical date key format.
const Layout = "2006-01-02"

// Key is a calendar day in YYYY-MM-DD form. The zero value means "no date".
type Key string

// Clock returns the current time. Production code uses time.Now.
type Clock func() time.Time

// FromTime returns the key for t's local calendar date.
func FromTime(t time.Time) Key {
	return Key(t.Local().Format(Layout))
}

// Today returns today's key according to clock (time.Now when nil).
func Today(clock Clock) Key {
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock())
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	if _, err := time.ParseInLocation(Layout, s, time.Local); err != nil {
		return "", err
	}
	return Key(s), nil
}

// Time returns local midnight of the key's day. Invalid keys yield the zero time.
func (k Key) Time() time.Time {
	t, err := time.ParseInLocation(Layout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the key n calendar days after k (n may be negative).
// Invalid keys are returned unchanged.
func (k Key) AddDays(n int) Key {
	t := k.Time()
	if t.IsZero() {
		return k
	}
	return Key(t.AddDate(0, 0, n).Format(Layout))
}

// Yesterday returns the key one calendar day before k.
func (k Key) Yesterday() Key {
	return k.AddDays(-1)
}

// IsZero reports whether k is unset.
func (k Key) IsZero() bool {
	return k == ""
}

func (k Key) String() string {
	return string(k)
}
