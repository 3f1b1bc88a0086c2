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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/test"
)

const testPattern = "test: %v"
const otherPattern = "other: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf(testPattern, "foo")
	test.ExpectEquality(t, e.Error(), "test: foo")

	// wrapping an error with the same prefix drops the duplicate part
	f := curated.Errorf(testPattern, e)
	test.ExpectEquality(t, f.Error(), "test: foo")

	g := curated.Errorf(otherPattern, f)
	test.ExpectEquality(t, g.Error(), "other: test: foo")
}

func TestIsHas(t *testing.T) {
	e := curated.Errorf(testPattern, "foo")
	f := curated.Errorf(otherPattern, e)

	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.IsAny(nil))

	test.ExpectSuccess(t, curated.Is(e, testPattern))
	test.ExpectFailure(t, curated.Is(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, otherPattern))
	test.ExpectFailure(t, curated.Has(e, otherPattern))
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	e := curated.Errorf(testPattern, sentinel)
	test.ExpectSuccess(t, errors.Is(e, sentinel))

	f := curated.Errorf(otherPattern, e)
	test.ExpectSuccess(t, errors.Is(f, sentinel))
}
