// Package checksum computes content digests of files.
//
// Files are read in fixed ChunkSize chunks and streamed into a SHA-256
// accumulator, so memory use does not depend on file size. The digest is not
// consulted by the executor: no rule is ever skipped because its inputs are
// unchanged.
package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/vk/rulemake/internal/ctxlog"
)

// ChunkSize is the size of each read fed into the digest.
const ChunkSize = 64 * 1024

// Digest is a SHA-256 content digest.
type Digest [sha256.Size]byte

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Reader digests everything readable from r and reports how many bytes were
// consumed.
func Reader(r io.Reader) (Digest, int64, error) {
	var (
		d     Digest
		total int64
	)
	h := sha256.New()
	buf := make([]byte, ChunkSize)

	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return d, total, fmt.Errorf("read: %w", err)
		}
	}

	copy(d[:], h.Sum(nil))
	return d, total, nil
}

// File digests the file at path.
func File(ctx context.Context, path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, n, err := Reader(f)
	if err != nil {
		return Digest{}, fmt.Errorf("checksum %s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Computed checksum.",
		"path", path,
		"size", humanize.Bytes(uint64(n)),
		"digest", d.String(),
	)
	return d, nil
}
