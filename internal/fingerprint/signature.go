package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// signatureChunkSize is how many bytes the partial signature reads from each
// end of the file.
const signatureChunkSize = 4096

// PartialSignature hashes the first 4KiB of the file, the last 4KiB (only
// when the file is larger than 8KiB), and the total length. Two files with
// equal partial signatures are treated as byte-identical by the exact-match
// stage; the residual collision risk is an accepted speed trade-off and must
// not be "fixed" by hashing the whole file.
func PartialSignature(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	hasher := sha256.New()
	buf := make([]byte, signatureChunkSize)

	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read head of %s: %w", path, err)
	}
	hasher.Write(buf[:n])

	if size > signatureChunkSize*2 {
		if _, err := f.Seek(-signatureChunkSize, io.SeekEnd); err != nil {
			return "", fmt.Errorf("seek tail of %s: %w", path, err)
		}
		n, err := f.Read(buf)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read tail of %s: %w", path, err)
		}
		hasher.Write(buf[:n])
	}

	var lenBytes [8]byte
	binary.LittleEndian.PutUint64(lenBytes[:], uint64(size))
	hasher.Write(lenBytes[:])

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ExactSignature hashes the entire file with SHA-256. The default pipeline
// does not call it; it exists for callers that want strict verification of a
// partial-signature group.
func ExactSignature(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
