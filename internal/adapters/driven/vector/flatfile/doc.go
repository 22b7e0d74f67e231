// Package flatfile provides an on-disk flat vector index implementing
// driven.VectorIndex.
//
// Two layouts exist. An idmap index stores an explicit uint64 id per vector
// and can enumerate its membership. A plain index stores vectors only and
// labels them by 1-based position; it cannot enumerate stable ids, so the
// reconciler runs in degraded mode against it.
//
// The whole file is read into memory on Open and rewritten on Persist via a
// temporary sibling and rename. Payloads may be zstd compressed.
package flatfile
