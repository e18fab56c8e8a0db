package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines, _, err := tail(file, maxLines, true)
	return lines, err
}

// tail scans r to the end and keeps the last maxLines lines. It also returns
// the number of bytes consumed by complete lines. A trailing line without a
// newline is kept only when partial is set; it is never counted as consumed.
func tail(r io.Reader, maxLines int, partial bool) ([]string, int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var (
		ring     []string
		idx      int
		count    int
		consumed int64
	)
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read log: %w", err)
		}
		eof := err != nil
		if eof && (!partial || line == "") {
			break
		}
		if !eof {
			consumed += int64(len(line))
		}
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		line = strings.TrimRight(line, "\r\n")
		if maxLines <= 0 {
			ring = append(ring, line)
			if eof {
				break
			}
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
		if eof {
			break
		}
	}

	if maxLines <= 0 {
		return ring, consumed, nil
	}
	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, consumed, nil
}

// Follower reads a growing log file incrementally. The first call to Next
// returns the last maxLines lines; later calls return only lines appended
// since. A file that shrinks is treated as rotated and read from the start.
type Follower struct {
	path     string
	maxLines int
	offset   int64
	started  bool
}

// NewFollower returns a Follower for path.
func NewFollower(path string, maxLines int) *Follower {
	return &Follower{path: path, maxLines: maxLines}
}

// Path returns the followed file.
func (f *Follower) Path() string {
	return f.path
}

// Next returns complete lines written since the previous call. reset is true
// when the returned lines replace, rather than extend, what the caller holds.
func (f *Follower) Next() (lines []string, reset bool, err error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			reset = f.started && f.offset > 0
			f.offset = 0
			return nil, reset, nil
		}
		return nil, false, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat log: %w", err)
	}
	if !f.started || info.Size() < f.offset {
		f.offset = 0
		reset = true
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, false, fmt.Errorf("seek log: %w", err)
	}

	limit := 0
	if reset {
		limit = f.maxLines
	}
	lines, consumed, err := tail(file, limit, false)
	if err != nil {
		return nil, false, err
	}
	f.offset += consumed
	f.started = true
	return lines, reset, nil
}
