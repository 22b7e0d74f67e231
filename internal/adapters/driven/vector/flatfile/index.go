package flatfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"math"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/fsutil"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Options describe a new index file.
type Options struct {
	Kind      Kind
	Codec     Codec
	Dimension int
}

// Index is a flat vector index loaded fully into memory.
type Index struct {
	mu        sync.RWMutex
	path      string
	kind      Kind
	codec     Codec
	dimension int
	ids       []uint64  // KindIDMap only, parallel to vectors
	vectors   []float32 // count*dimension values
	closed    bool
}

// Open loads the index file at path.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("flatfile: path cannot be empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("flatfile: reading %s: %w", path, err)
	}

	idx, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	idx.path = path
	return idx, nil
}

// Create builds a new index at path from ids and vectors and writes it.
// ids must be nil for KindPlain; for KindIDMap there is one non-zero id per vector.
func Create(path string, opts Options, ids []domain.VectorID, vectors [][]float32) (*Index, error) {
	if path == "" {
		return nil, errors.New("flatfile: path cannot be empty")
	}
	if !opts.Kind.valid() {
		return nil, fmt.Errorf("%w: index kind %s", domain.ErrUnsupportedType, opts.Kind)
	}
	if !opts.Codec.valid() {
		return nil, fmt.Errorf("%w: codec %s", domain.ErrUnsupportedType, opts.Codec)
	}
	if opts.Dimension <= 0 {
		return nil, errors.New("flatfile: dimension must be positive")
	}

	idx := &Index{
		path:      path,
		kind:      opts.Kind,
		codec:     opts.Codec,
		dimension: opts.Dimension,
		vectors:   make([]float32, 0, len(vectors)*opts.Dimension),
	}

	switch opts.Kind {
	case KindIDMap:
		if len(ids) != len(vectors) {
			return nil, fmt.Errorf("flatfile: %d ids for %d vectors", len(ids), len(vectors))
		}
		idx.ids = make([]uint64, 0, len(ids))
		for _, id := range ids {
			if id == 0 {
				return nil, fmt.Errorf("%w: zero id", domain.ErrInvalidIdentifier)
			}
			idx.ids = append(idx.ids, uint64(id))
		}
	case KindPlain:
		if ids != nil {
			return nil, errors.New("flatfile: plain indexes take no ids")
		}
	}

	for i, v := range vectors {
		if len(v) != opts.Dimension {
			return nil, fmt.Errorf("flatfile: vector %d has dimension %d, want %d", i, len(v), opts.Dimension)
		}
		idx.vectors = append(idx.vectors, v...)
	}

	if err := idx.Persist(context.Background()); err != nil {
		return nil, err
	}
	return idx, nil
}

// Enumerate returns every id for KindIDMap indexes. KindPlain indexes have no
// stable ids and report an unenumerable snapshot.
func (idx *Index) Enumerate(_ context.Context) (domain.VectorSnapshot, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, errors.New("flatfile: index is closed")
	}

	if idx.kind != KindIDMap {
		return domain.Unenumerable(fmt.Sprintf("%s index stores no id map", idx.kind)), nil
	}

	ids := make([]domain.VectorID, len(idx.ids))
	for i, id := range idx.ids {
		ids[i] = domain.VectorID(id)
	}
	return domain.Enumerated(ids), nil
}

// Remove deletes vectors by id and returns how many vectors were removed.
// For KindPlain the ids are 1-based positions taken before any removal.
func (idx *Index) Remove(ctx context.Context, ids []domain.VectorID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, errors.New("flatfile: index is closed")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[uint64(id)] = struct{}{}
	}

	count := idx.count()
	keepIDs := idx.ids[:0]
	removed := 0
	w := 0
	for i := 0; i < count; i++ {
		label := uint64(i + 1)
		if idx.kind == KindIDMap {
			label = idx.ids[i]
		}
		if _, ok := drop[label]; ok {
			removed++
			continue
		}
		if idx.kind == KindIDMap {
			keepIDs = append(keepIDs, idx.ids[i])
		}
		copy(idx.vectors[w*idx.dimension:(w+1)*idx.dimension], idx.vectors[i*idx.dimension:(i+1)*idx.dimension])
		w++
	}

	if idx.kind == KindIDMap {
		idx.ids = keepIDs
	}
	idx.vectors = idx.vectors[:w*idx.dimension]
	return removed, nil
}

// Persist writes the index back to its path atomically.
func (idx *Index) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return errors.New("flatfile: index is closed")
	}

	data, err := idx.encode()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(idx.path, data, 0600)
}

// Path returns the index file path.
func (idx *Index) Path() string {
	return idx.path
}

// Stats describes the index.
func (idx *Index) Stats() driven.VectorStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return driven.VectorStats{
		Kind:       idx.kind.String(),
		Codec:      idx.codec.String(),
		Dimension:  idx.dimension,
		Count:      idx.count(),
		Enumerable: idx.kind == KindIDMap,
	}
}

// Vector returns a copy of the vector at position i (0-based).
func (idx *Index) Vector(i int) ([]float32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if i < 0 || i >= idx.count() {
		return nil, false
	}
	out := make([]float32, idx.dimension)
	copy(out, idx.vectors[i*idx.dimension:])
	return out, true
}

// Close releases the loaded vectors.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.ids = nil
	idx.vectors = nil
	return nil
}

func (idx *Index) count() int {
	return len(idx.vectors) / idx.dimension
}

// encode serialises the index (caller must hold lock).
func (idx *Index) encode() ([]byte, error) {
	count := idx.count()
	payload := make([]byte, 0, len(idx.ids)*8+len(idx.vectors)*4)
	if idx.kind == KindIDMap {
		for _, id := range idx.ids {
			payload = binary.LittleEndian.AppendUint64(payload, id)
		}
	}
	for _, v := range idx.vectors {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(v))
	}

	checksum := crc32.ChecksumIEEE(payload)
	stored := payload
	if idx.codec == CodecZstd {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("flatfile: creating zstd encoder: %w", err)
		}
		stored = enc.EncodeAll(payload, nil)
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("flatfile: closing zstd encoder: %w", err)
		}
	}

	header := fileHeader{
		Magic:      magicNumber,
		Version:    formatVersion,
		Kind:       idx.kind,
		Codec:      idx.codec,
		Dimension:  uint32(idx.dimension),
		Count:      uint64(count),
		PayloadLen: uint64(len(stored)),
		Checksum:   checksum,
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(stored))
	if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("flatfile: writing header: %w", err)
	}
	buf.Write(stored)
	return buf.Bytes(), nil
}

// maxPreallocRatio bounds the decode buffer reserved per compressed byte.
const maxPreallocRatio = 8

// decode parses a complete index file.
func decode(data []byte) (*Index, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file shorter than header", ErrCorrupt)
	}

	var header fileHeader
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if header.Magic != magicNumber {
		return nil, ErrInvalidMagic
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.Version)
	}
	if !header.Kind.valid() {
		return nil, fmt.Errorf("%w: index kind %s", domain.ErrUnsupportedType, header.Kind)
	}
	if !header.Codec.valid() {
		return nil, fmt.Errorf("%w: codec %s", domain.ErrUnsupportedType, header.Codec)
	}
	if header.Dimension == 0 {
		return nil, fmt.Errorf("%w: zero dimension", ErrCorrupt)
	}

	stored := data[headerSize:]
	if uint64(len(stored)) != header.PayloadLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(stored), header.PayloadLen)
	}

	want, err := header.payloadSize()
	if err != nil {
		return nil, err
	}

	payload := stored
	if header.Codec == CodecZstd {
		// The header is untrusted until the checksum passes, so the decoder
		// enforces the size limit and preallocation stays bounded by the input.
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(max(want, 1)))
		if err != nil {
			return nil, fmt.Errorf("flatfile: creating zstd decoder: %w", err)
		}
		defer dec.Close()
		prealloc := min(want, uint64(len(stored))*maxPreallocRatio)
		payload, err = dec.DecodeAll(stored, make([]byte, 0, prealloc))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	if uint64(len(payload)) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupt, len(payload), want)
	}
	if crc32.ChecksumIEEE(payload) != header.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	count := int(header.Count)
	dim := int(header.Dimension)
	idx := &Index{
		kind:      header.Kind,
		codec:     header.Codec,
		dimension: dim,
		vectors:   make([]float32, count*dim),
	}

	off := 0
	if header.Kind == KindIDMap {
		idx.ids = make([]uint64, count)
		for i := range idx.ids {
			idx.ids[i] = binary.LittleEndian.Uint64(payload[off:])
			off += 8
		}
	}
	for i := range idx.vectors {
		idx.vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off:]))
		off += 4
	}
	return idx, nil
}
