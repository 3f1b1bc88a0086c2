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

// Package assert contains helpers for checking programming constraints that
// cannot be expressed by the type system. The functions should only be used
// for debugging and testing purposes.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// GetGoRoutineID returns an identifier for the calling goroutine. The result
// is different between goroutines and consistent for a given goroutine.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine that claimed a resource. The zero value is
// unclaimed.
type Owner struct {
	id atomic.Uint64
}

// Claim the resource for the calling goroutine. Returns false if the resource
// is already claimed by a different goroutine.
func (o *Owner) Claim() bool {
	id := GetGoRoutineID()
	if o.id.CompareAndSwap(0, id) {
		return true
	}
	return o.id.Load() == id
}

// Release the claim. Only the claiming goroutine can release the resource.
func (o *Owner) Release() bool {
	return o.id.CompareAndSwap(GetGoRoutineID(), 0)
}

// IsOwner returns true if the calling goroutine holds the claim.
func (o *Owner) IsOwner() bool {
	id := o.id.Load()
	return id != 0 && id == GetGoRoutineID()
}
