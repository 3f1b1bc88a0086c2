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

// Package logger is the central logging facility for glvideo. Log entries
// are stored in memory and can be written to any io.Writer on demand, or
// echoed as they arrive with SetEcho().
//
// Entries are made up of a tag and a detail. Consecutive entries with the
// same tag and detail are collapsed into a single entry with a repeat count.
// This is useful for the per-frame paths of the video pipeline where the
// same condition might be reported many times per second.
//
// Every call to Log() and Logf() takes a Permission. Use Allow when logging
// should always happen.
package logger

import (
	"io"
)

// Permission implementations decide whether a log entry should be made.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow is a Permission that always allows logging.
var Allow Permission = allow{}

const maxCentral = 512

var central *Logger

func init() {
	central = NewLogger(maxCentral)
}

// Log adds an entry to the central logger.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear all entries from the central logger.
func Clear() {
	central.Clear()
}

// Write the contents of the central logger to the io.Writer.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last N entries of the central logger to the io.Writer.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints entries to the io.Writer as they are added. A nil writer
// turns echoing off. If writeRecent is true then existing entries are written
// immediately.
func SetEcho(output io.Writer, writeRecent bool) {
	central.SetEcho(output, writeRecent)
}

// BorrowLog gives the function access to the central log entries.
func BorrowLog(f func([]Entry)) {
	central.BorrowLog(f)
}
