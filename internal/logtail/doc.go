// Package logtail reads the tail of the client's own log file.
//
// # Overview
//
// The book site client logs JSON lines to a file because the terminal belongs
// to the TUI. The Logs page shows that file, so it needs the last few hundred
// lines on entry and whatever was appended afterwards on every refresh. This
// package provides both without loading the whole file into memory.
//
// # Reading Log Files
//
// Read returns the last maxLines lines of a file in one pass using a ring
// buffer:
//
//   - Scans the file sequentially (one pass)
//   - Uses O(maxLines) memory, not O(file size)
//   - Returns lines in chronological order
//   - A non-positive maxLines returns every line
//
// Example usage:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	if err != nil {
//		logger.Warn().Err(err).Msg("read log failed")
//	}
//
// # Following
//
// Follower remembers the byte offset it has consumed. Its first Next call
// behaves like Read; later calls return only complete lines appended since.
// A trailing line without its newline is left for the next call, so a line
// is never split across two results.
//
//	f := logtail.NewFollower(path, 400)
//	lines, reset, err := f.Next()
//	if reset {
//		buffer = lines
//	} else {
//		buffer = append(buffer, lines...)
//	}
//
// When the file is shorter than the remembered offset (rotated or truncated)
// Next starts over and reports reset.
//
// # Error Handling
//
// A missing file is not an error: Read returns nil and Next returns no lines
// until the file appears. Open, stat, seek and read failures are wrapped and
// returned.
//
// Lines longer than 1 MiB are cut at that length.
package logtail
