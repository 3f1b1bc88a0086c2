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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function, which takes a
// pattern string and a list of values, in the same way as fmt.Errorf().
//
// The pattern is remembered and the Is() function can be used to check
// whether an error was created with a particular pattern. Patterns that are
// tested for should be stored as exported string constants by the package
// that creates them. For example:
//
//	const NoViablePath = "glvideo: no viable pipeline configuration"
//
//	if curated.Is(err, videogl.NoViablePath) {
//		...
//	}
//
// The Has() function is similar but checks whether the pattern occurs
// anywhere in the chain of wrapped errors.
//
// The Error() implementation normalises the chain by removing duplicate
// adjacent parts. Parts are the sub-strings separated by ": ". This means
// that a function can wrap an error with its own context without worrying
// about whether the callee has already done so.
//
// Curated errors that wrap another error (by including it in the values list)
// implement Unwrap() so the standard library errors.Is() and errors.As()
// functions can see through them.
package curated
