// Package store implements the file-backed ProfileStore: an index.json of
// StoredProfileInfo rows alongside per-profile JSON blobs, addressed by
// content hash, schema hash, and centroid distance (spec §4.3).
package store

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"dataprofiler/domain/profile"
	"dataprofiler/internal/errors"
)

const hashBufferSize = 1 << 20 // 1 MiB streaming buffer

// HashFile computes the xxHash64 content hash of a file, streaming through a
// 1 MiB buffer rather than loading the whole file into memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.SourceUnreadable(path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBufferSize)); err != nil {
		return "", errors.SourceUnreadable(path, err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// StructuralFingerprint hashes a query-result source's shape as a stand-in
// content hash for non-file sources: schema plus per-column min/max/mean/
// null_count/unique_count (spec §4.3/§6), so two pulls of the same table
// with materially different values don't collide on content hash.
func StructuralFingerprint(p *profile.DataProfile) string {
	type columnSig struct {
		name                   string
		typ                    string
		min, max, mean         float64
		nullCount, uniqueCount int64
	}
	sigs := make([]columnSig, len(p.Columns))
	for i, c := range p.Columns {
		sigs[i] = columnSig{
			name:        strings.ToLower(c.Name),
			typ:         strings.ToLower(string(c.InferredType)),
			min:         c.Min,
			max:         c.Max,
			mean:        c.Mean,
			nullCount:   c.NullCount,
			uniqueCount: c.UniqueCount,
		}
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i].name < sigs[j].name })

	var b strings.Builder
	fmt.Fprintf(&b, "%d|", p.RowCount)
	for _, s := range sigs {
		fmt.Fprintf(&b, "%s:%s:%g:%g:%g:%d:%d|", s.name, s.typ, s.min, s.max, s.mean, s.nullCount, s.uniqueCount)
	}
	sum := xxhash.Sum64String(b.String())
	return "db:" + fmt.Sprintf("%016x", sum)
}

// SchemaHash hashes the sorted, case-insensitive "{name:type|}" schema
// signature of a profile (spec §4.3).
func SchemaHash(p *profile.DataProfile) string {
	terms := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		terms[i] = fmt.Sprintf("%s:%s|", strings.ToLower(c.Name), strings.ToLower(string(c.InferredType)))
	}
	sort.Strings(terms)
	sum := xxhash.Sum64String(strings.Join(terms, ""))
	return fmt.Sprintf("%016x", sum)
}
