// Package digest computes content digests of files. Digests depend only on
// the bytes of a file, never on its name, timestamps or permissions.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// ChunkSize is the read buffer size used when streaming file content.
const ChunkSize = 64 << 10

// HexLen is the length of a digest rendered by File or Reader.
const HexLen = sha256.Size * 2

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// ReadError reports that a file could not be read while computing its digest.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// File returns the lowercase hex SHA-256 digest of the file at path. Any I/O
// failure is returned as a *ReadError.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return sum, nil
}

// Reader streams r through SHA-256 in ChunkSize pieces.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	bp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bp)
	buf := *bp
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the digest of b. It matches File for a file holding b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
