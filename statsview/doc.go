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


// Package statsview serves runtime statistics of the running player over
// HTTP. The server is only included when the statsview build tag is present.
// Without the tag Available() returns false and Launch() does nothing.
//
// The underlying functionality is provided by "github.com/go-echarts/statsview".
// After launch, graphs of memory use, goroutines and garbage collection will
// be viewable at:
//
//	localhost:12600/debug/statsview
//
// Which is useful when checking that the video pipeline is not allocating
// on every frame. Standard Go pprof statistics are also available at:
//
//	localhost:12600/debug/pprof/
package statsview
