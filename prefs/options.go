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

package prefs

import (
	"strings"
)

// Option is a single key/value pair from an options string.
type Option struct {
	Key   string
	Value string
}

// Options is the result of SplitOptions(). Options are in the order they
// appeared in the options string.
type Options []Option

// SplitOptions divides an options string into key/value pairs. Pairs are
// separated by a comma and the key and value are separated by an equals sign.
// Keys are normalised to lower case. An entry without an equals sign is a key
// with an empty value.
func SplitOptions(options string) Options {
	var opts Options

	for _, o := range strings.Split(options, ",") {
		key, value, _ := strings.Cut(o, "=")

		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}

		opts = append(opts, Option{
			Key:   key,
			Value: strings.TrimSpace(value),
		})
	}

	return opts
}

// First returns the value of the first option with the key. The key is
// matched case insensitively.
func (opts Options) First(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, o := range opts {
		if o.Key == key {
			return o.Value, true
		}
	}
	return "", false
}

// Contains returns true if any option key or value contains the word. The word
// is matched case insensitively.
func (opts Options) Contains(word string) bool {
	word = strings.ToLower(word)
	for _, o := range opts {
		if strings.Contains(o.Key, word) || strings.Contains(strings.ToLower(o.Value), word) {
			return true
		}
	}
	return false
}
