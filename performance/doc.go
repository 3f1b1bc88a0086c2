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


// Package performance contains helper functions relating to performance.
//
// Check() runs the video pipeline against a headless context for a fixed
// duration and reports how many frames per second could be prepared. The
// figure measures the cost of the pipeline on the CPU side: frame packing,
// chain traversal and resource bookkeeping. It will optionally generate
// profiling information.
//
// RunProfiler() can be used to generate the various profile types. On its
// own it will not limit the amount of time the program runs for so it is
// useful for more real-world situations, such as the play command.
//
// CalcFPS() calculates frames-per-second in aggregate along with an accuracy
// value as compared to a target rate. Probably not suitable for "live" FPS
// monitoring.
package performance
