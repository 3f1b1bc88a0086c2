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

// Package prefs holds live preference values. Each value can have hooks that
// are run just before and just after the value changes.
//
// The values are safe to read from any goroutine. Hooks are run on the
// goroutine that calls Set().
//
// Option strings of the form "key=value,key=value" are split with
// SplitOptions(). The order of the options is preserved so that callers can
// decide whether the first or the last occurance of a key has priority.
package prefs
