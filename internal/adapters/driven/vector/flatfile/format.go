package flatfile

import (
	"errors"
	"fmt"
)

const (
	// magicNumber identifies vecsync flat index files (ASCII: "VSX1").
	magicNumber = 0x56535831
	// formatVersion is the current file format version.
	formatVersion = 1
	// headerSize is the encoded size of fileHeader in bytes.
	headerSize = 40
)

var (
	ErrInvalidMagic   = errors.New("flatfile: invalid magic number")
	ErrInvalidVersion = errors.New("flatfile: unsupported version")
	ErrCorrupt        = errors.New("flatfile: corrupt index")
)

// Kind is the index layout.
type Kind uint8

const (
	// KindIDMap stores an explicit id per vector and can enumerate them.
	KindIDMap Kind = 1
	// KindPlain stores vectors only. Labels are 1-based positions, which
	// shift on removal, so the index cannot enumerate stable ids.
	KindPlain Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindIDMap:
		return "idmap"
	case KindPlain:
		return "plain"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) valid() bool {
	return k == KindIDMap || k == KindPlain
}

// Codec is the payload encoding.
type Codec uint8

const (
	// CodecNone stores the payload as is.
	CodecNone Codec = 0
	// CodecZstd compresses the payload with zstd.
	CodecZstd Codec = 1
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

func (c Codec) valid() bool {
	return c == CodecNone || c == CodecZstd
}

// fileHeader is the 40-byte little-endian header at the start of every index file.
//
// The payload that follows holds Count ids (KindIDMap only) and then
// Count*Dimension float32 values, optionally compressed as a whole.
type fileHeader struct {
	Magic      uint32
	Version    uint32
	Kind       Kind
	Codec      Codec
	_          [2]byte
	Dimension  uint32
	Count      uint64
	PayloadLen uint64 // stored (possibly compressed) payload length
	Checksum   uint32 // CRC32 (IEEE) of the uncompressed payload
	_          [4]byte
}

// payloadSize returns the uncompressed payload size implied by the header.
func (h *fileHeader) payloadSize() (uint64, error) {
	per := uint64(h.Dimension) * 4
	if h.Kind == KindIDMap {
		per += 8
	}
	if h.Count > 0 && per > (1<<62)/h.Count {
		return 0, fmt.Errorf("%w: payload size overflows", ErrCorrupt)
	}
	return per * h.Count, nil
}
