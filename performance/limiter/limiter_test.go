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


package limiter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/performance/limiter"
	"github.com/jetsetilly/glvideo/test"
)

func TestInvalidRate(t *testing.T) {
	_, err := limiter.NewFPSLimiter(0)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, limiter.InvalidRate))

	lim, err := limiter.NewFPSLimiter(100)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	test.ExpectFailure(t, lim.SetLimit(-1))
	test.ExpectEquality(t, lim.Limit(), 100.0)
}

func TestWait(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(200)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	start := time.Now()
	for range 20 {
		lim.Wait()
	}

	// the first tick is immediate so twenty ticks at 200 per second take at
	// least 95ms
	test.ExpectSuccess(t, time.Since(start) >= 90*time.Millisecond)
}
