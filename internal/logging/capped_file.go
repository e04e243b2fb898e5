package logging

import (
	"bytes"
	"os"
	"sync"
)

// cappedFile keeps the log of a long-running watch session bounded. When
// the file would grow past the cap it is rewritten with only the newest
// half, cut at a line boundary, so the entries for the poll cycles under
// investigation are the ones that survive.
type cappedFile struct {
	path     string
	maxBytes int64
	mu       sync.Mutex
	file     *os.File
	size     int64
}

func openCappedFile(path string, maxMB int) (*cappedFile, error) {
	if maxMB <= 0 {
		maxMB = 20
	}
	maxBytes := int64(maxMB) * 1024 * 1024
	f, size, err := appendLogFile(path)
	if err != nil {
		return nil, err
	}
	return &cappedFile{
		path:     path,
		maxBytes: maxBytes,
		file:     f,
		size:     size,
	}, nil
}

func (c *cappedFile) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		f, size, err := appendLogFile(c.path)
		if err != nil {
			return 0, err
		}
		c.file = f
		c.size = size
	}
	if c.size+int64(len(p)) > c.maxBytes {
		if err := c.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := c.file.Write(p)
	c.size += int64(n)
	return n, err
}

func (c *cappedFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file != nil {
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}

// rotate rewrites the file with its newest half so recent entries outlive
// the cap.
func (c *cappedFile) rotate() error {
	if c.file != nil {
		_ = c.file.Close()
		c.file = nil
	}
	tail, err := readTail(c.path, c.maxBytes/2)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	n, err := f.Write(tail)
	if err != nil {
		_ = f.Close()
		return err
	}
	c.file = f
	c.size = int64(n)
	return nil
}

// readTail returns up to keep trailing bytes of the file, advanced past the
// first newline so the result starts on a whole log line.
func readTail(path string, keep int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() <= keep {
		return os.ReadFile(path)
	}
	buf := make([]byte, keep)
	if _, err := f.ReadAt(buf, info.Size()-keep); err != nil {
		return nil, err
	}
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[i+1:]
	}
	return buf, nil
}

func appendLogFile(path string) (*os.File, int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
