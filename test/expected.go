// This file is part of glvideo.
//
// glvideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// glvideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with glvideo.  If not, see <https://www.gnu.org/licenses/>.

package test

import (
	"fmt"
	"math"
	"testing"
)

func tag(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprintf("%v: ", fmt.Sprint(tags...))
}

// success returns true if the value represents success. the second return
// value is false if the type is not supported.
func success(v any) (bool, bool) {
	switch v := v.(type) {
	case nil:
		return true, true
	case bool:
		return v, true
	case error:
		return v == nil, true
	}
	return false, false
}

// ExpectSuccess tests the value for success. See package documentation for
// the supported types.
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	ok, supported := success(v)
	if !supported {
		t.Fatalf("%sunsupported type (%T) for expectation testing", tag(tags...), v)
		return false
	}
	if !ok {
		t.Errorf("%sexpected success (%T: %v)", tag(tags...), v, v)
	}
	return ok
}

// ExpectFailure tests the value for failure. See package documentation for
// the supported types.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	ok, supported := success(v)
	if !supported {
		t.Fatalf("%sunsupported type (%T) for expectation testing", tag(tags...), v)
		return false
	}
	if ok {
		t.Errorf("%sexpected failure (%T)", tag(tags...), v)
	}
	return !ok
}

// ExpectEquality tests that the two values are equal.
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", tag(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// ExpectInequality tests that the two values are not equal.
func ExpectInequality[T comparable](t *testing.T, v T, unexpectedValue T, tags ...any) bool {
	t.Helper()
	if v == unexpectedValue {
		t.Errorf("%sinequality test of type %T failed: '%v' equals '%v'", tag(tags...), v, v, unexpectedValue)
		return false
	}
	return true
}

// ExpectApproximate tests that the value is within the tolerance of the
// expected value. The tolerance is a fraction of the expected value.
func ExpectApproximate[T ~float32 | ~float64 | ~int](t *testing.T, v T, expectedValue T, tolerance float64, tags ...any) bool {
	t.Helper()
	d := math.Abs(float64(expectedValue) * tolerance)
	if math.Abs(float64(v)-float64(expectedValue)) > d {
		t.Errorf("%sapproximation test of type %T failed: '%v' is not within %v of '%v'", tag(tags...), v, v, d, expectedValue)
		return false
	}
	return true
}

// DemandEquality is like ExpectEquality except that the test is stopped on
// failure.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", tag(tags...), v, v, expectedValue)
	}
}

// DemandSuccess is like ExpectSuccess except that the test is stopped on
// failure.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if ok, supported := success(v); !ok || !supported {
		t.Fatalf("%sa success value is demanded (%T: %v)", tag(tags...), v, v)
	}
}

// DemandFailure is like ExpectFailure except that the test is stopped on
// failure.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if ok, supported := success(v); ok || !supported {
		t.Fatalf("%sa failure value is demanded (%T)", tag(tags...), v)
	}
}
