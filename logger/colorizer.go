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

package logger

import (
	"io"
	"strings"
)

const (
	penNormal = "\033[0m"
	penDim    = "\033[2m"
	penRed    = "\033[31m"
)

// Colorizer applies basic colouring rules to logging output. The tag is
// dimmed and any entry mentioning an error is printed in red.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	s := strings.TrimSuffix(string(p), "\n")

	tag, detail, ok := strings.Cut(s, ": ")
	if !ok {
		return c.out.Write(p)
	}

	pen := penNormal
	if strings.Contains(strings.ToLower(detail), "error") {
		pen = penRed
	}

	_, err := io.WriteString(c.out, penDim+tag+": "+penNormal+pen+detail+penNormal+"\n")
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
