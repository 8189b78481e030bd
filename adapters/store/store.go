package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"

	"dataprofiler/adapters/segment"
	"dataprofiler/domain/core"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/signature"
	"dataprofiler/internal"
	"dataprofiler/internal/errors"
	"dataprofiler/ports"
)

const indexFileName = "index.json"

// Store implements ports.ProfileStore over a directory of JSON profile
// blobs plus a single index.json of StoredProfileInfo rows.
type Store struct {
	mu       sync.Mutex
	rootDir  string
	index    map[string]signature.StoredProfileInfo
	centroid *segment.Profiler
	logger   *internal.Logger
}

// New opens (or initializes) a ProfileStore rooted at dir.
func New(dir string, logger *internal.Logger) (*Store, error) {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.PathUnavailable(dir, err)
	}
	s := &Store{rootDir: dir, centroid: segment.NewProfiler(), logger: logger}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) indexPath() string { return filepath.Join(s.rootDir, indexFileName) }

func (s *Store) blobPath(id string) string { return filepath.Join(s.rootDir, id+".json") }

// loadIndex reads index.json into memory, resetting to an empty index and
// logging on corruption rather than failing open (spec §4.3).
func (s *Store) loadIndex() error {
	raw, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		s.index = make(map[string]signature.StoredProfileInfo)
		return nil
	}
	if err != nil {
		return errors.PathUnavailable(s.indexPath(), err)
	}

	var rows []signature.StoredProfileInfo
	if err := json.Unmarshal(raw, &rows); err != nil {
		s.logger.Error("profile store index corrupt, resetting: %v", err)
		s.index = make(map[string]signature.StoredProfileInfo)
		return nil
	}

	s.index = make(map[string]signature.StoredProfileInfo, len(rows))
	for _, r := range rows {
		s.index[r.ID] = r
	}
	return nil
}

// saveIndex writes the index atomically via a temp file and rename, so a
// crash mid-write never leaves index.json truncated (spec §4.3 atomicity).
func (s *Store) saveIndex() error {
	rows := make([]signature.StoredProfileInfo, 0, len(s.index))
	for _, r := range s.index {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StoredAt.Time().Before(rows[j].StoredAt.Time()) })

	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.PathUnavailable(s.rootDir, err)
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		return errors.PathUnavailable(s.rootDir, err)
	}
	return nil
}

// Store persists p, completing info with fields derived from the profile
// itself (schema hash, statistical signature, centroid, identity, path).
func (s *Store) Store(ctx context.Context, p *profile.DataProfile, info signature.StoredProfileInfo) (signature.StoredProfileInfo, error) {
	centroid, err := s.centroid.Centroid(ctx, p)
	if err != nil {
		return signature.StoredProfileInfo{}, err
	}

	info.ID = core.NewShortID()
	info.StoredAt = core.Now()
	info.RowCount = p.RowCount
	info.ColumnCount = p.ColumnCount
	info.SchemaHash = SchemaHash(p)
	info.StatisticalSignature = BuildStatisticalSignature(p)
	info.CentroidVector = centroid
	if info.FileName == "" {
		info.FileName = filepath.Base(info.SourcePath)
	}
	info.ProfilePath = s.blobPath(info.ID)

	raw, err := json.Marshal(p)
	if err != nil {
		return signature.StoredProfileInfo{}, err
	}
	if err := os.WriteFile(info.ProfilePath, raw, 0o644); err != nil {
		return signature.StoredProfileInfo{}, errors.PathUnavailable(info.ProfilePath, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[info.ID] = info
	if err := s.saveIndex(); err != nil {
		return signature.StoredProfileInfo{}, err
	}
	return info, nil
}

// Load reads back the profile and index row for id.
func (s *Store) Load(ctx context.Context, id string) (*profile.DataProfile, signature.StoredProfileInfo, error) {
	s.mu.Lock()
	info, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		return nil, signature.StoredProfileInfo{}, errors.NotFound("profile " + id)
	}

	raw, err := os.ReadFile(info.ProfilePath)
	if err != nil {
		return nil, signature.StoredProfileInfo{}, errors.PathUnavailable(info.ProfilePath, err)
	}
	var p profile.DataProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, signature.StoredProfileInfo{}, errors.IndexCorrupt(info.ProfilePath, err)
	}
	return &p, info, nil
}

// Delete removes both the index row and the profile JSON blob for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.index[id]
	if !ok {
		return errors.NotFound("profile " + id)
	}
	delete(s.index, id)
	_ = os.Remove(info.ProfilePath)
	return s.saveIndex()
}

// FindByContentHash returns the stored record whose content hash matches.
func (s *Store) FindByContentHash(ctx context.Context, contentHash string) (*signature.StoredProfileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.index {
		if r.ContentHash == contentHash {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

// QuickFindExisting filters by byte size first, then hashes candidates only
// on a size match, avoiding a full re-hash when nothing could possibly
// match (spec §4.3).
func (s *Store) QuickFindExisting(ctx context.Context, sourcePath string, fileSize int64) (*signature.StoredProfileInfo, error) {
	var candidates []signature.StoredProfileInfo
	s.mu.Lock()
	for _, r := range s.index {
		if r.SourcePath == sourcePath && r.FileSize == fileSize {
			candidates = append(candidates, r)
		}
	}
	s.mu.Unlock()
	if len(candidates) == 0 {
		return nil, nil
	}

	hash, err := HashFile(sourcePath)
	if err != nil {
		return nil, err
	}
	for _, r := range candidates {
		if r.ContentHash == hash {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

// FindBySchemaHash returns every stored record sharing schemaHash.
func (s *Store) FindBySchemaHash(ctx context.Context, schemaHash string) ([]signature.StoredProfileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []signature.StoredProfileInfo
	for _, r := range s.index {
		if r.SchemaHash == schemaHash {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoredAt.Time().Before(out[j].StoredAt.Time()) })
	return out, nil
}

// FindWithinDistance returns stored records whose centroid distance from
// centroid is at most maxDistance, sorted ascending (spec §4.3).
func (s *Store) FindWithinDistance(ctx context.Context, centroid []float64, maxDistance float64) ([]signature.StoredProfileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type scored struct {
		info signature.StoredProfileInfo
		dist float64
	}
	var hits []scored
	for _, r := range s.index {
		if len(r.CentroidVector) != len(centroid) {
			continue
		}
		d := segment.CentroidDistance(centroid, r.CentroidVector)
		if d <= maxDistance {
			hits = append(hits, scored{r, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]signature.StoredProfileInfo, len(hits))
	for i, h := range hits {
		out[i] = h.info
	}
	return out, nil
}

// Baseline returns the pinned baseline for schemaHash if any, else the
// oldest non-excluded profile sharing it (spec §4.3).
func (s *Store) Baseline(ctx context.Context, schemaHash string) (*signature.StoredProfileInfo, error) {
	rows, err := s.FindBySchemaHash(ctx, schemaHash)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.IsPinnedBaseline {
			r := r
			return &r, nil
		}
	}
	for _, r := range rows {
		if !r.ExcludeFromBaseline {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

// PinBaseline marks id as the pinned baseline for its schema_hash, unpinning
// any previous baseline sharing that schema_hash.
func (s *Store) PinBaseline(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.index[id]
	if !ok {
		return errors.NotFound("profile " + id)
	}
	for otherID, r := range s.index {
		if r.SchemaHash == target.SchemaHash && r.IsPinnedBaseline {
			r.IsPinnedBaseline = false
			s.index[otherID] = r
		}
	}
	target.IsPinnedBaseline = true
	s.index[id] = target
	return s.saveIndex()
}

// Prune keeps, per schema_hash, the keepPerSchema most recent profiles plus
// all pinned baselines, deleting the rest (spec §4.3).
func (s *Store) Prune(ctx context.Context, keepPerSchema int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bySchema := make(map[string][]signature.StoredProfileInfo)
	for _, r := range s.index {
		bySchema[r.SchemaHash] = append(bySchema[r.SchemaHash], r)
	}

	var deleted []string
	var reclaimed int64
	for _, rows := range bySchema {
		sort.Slice(rows, func(i, j int) bool { return rows[i].StoredAt.Time().After(rows[j].StoredAt.Time()) })
		kept := 0
		for _, r := range rows {
			if r.IsPinnedBaseline || kept < keepPerSchema {
				if !r.IsPinnedBaseline {
					kept++
				}
				continue
			}
			if info, err := os.Stat(r.ProfilePath); err == nil {
				reclaimed += info.Size()
			}
			_ = os.Remove(r.ProfilePath)
			delete(s.index, r.ID)
			deleted = append(deleted, r.ID)
		}
	}

	if len(deleted) > 0 {
		s.logger.Info("pruned %d profile(s), reclaimed %s", len(deleted), humanize.Bytes(uint64(reclaimed)))
		if err := s.saveIndex(); err != nil {
			return nil, err
		}
	}
	return deleted, nil
}

// Reconcile walks the store directory for profile JSON blobs that have no
// corresponding index row (orphaned after an IndexCorrupt reset or a crash
// between writing the blob and the index) and re-registers them by reading
// each blob's DataProfile directly, resolving the spec's open question
// about post-corruption recovery (spec §4.3).
func (s *Store) Reconcile(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, errors.PathUnavailable(s.rootDir, err)
	}

	s.mu.Lock()
	known := make(map[string]bool, len(s.index))
	for _, r := range s.index {
		known[filepath.Base(r.ProfilePath)] = true
	}
	s.mu.Unlock()

	var recovered []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == indexFileName || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if known[e.Name()] {
			continue
		}

		path := filepath.Join(s.rootDir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var p profile.DataProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			s.logger.Error("reconcile: skipping unreadable blob %s: %v", path, err)
			continue
		}

		id := e.Name()
		id = id[:len(id)-len(".json")]
		centroid, err := s.centroid.Centroid(ctx, &p)
		if err != nil {
			continue
		}
		info := signature.StoredProfileInfo{
			ID:                   id,
			SourcePath:           p.SourcePath,
			FileName:             filepath.Base(p.SourcePath),
			StoredAt:             core.Now(),
			RowCount:             p.RowCount,
			ColumnCount:          p.ColumnCount,
			ContentHash:          StructuralFingerprint(&p),
			SchemaHash:           SchemaHash(&p),
			StatisticalSignature: BuildStatisticalSignature(&p),
			CentroidVector:       centroid,
			ProfilePath:          path,
		}

		s.mu.Lock()
		s.index[id] = info
		s.mu.Unlock()
		recovered = append(recovered, id)
	}

	if len(recovered) > 0 {
		s.mu.Lock()
		err := s.saveIndex()
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	return recovered, nil
}

// List returns every stored profile's index row.
func (s *Store) List(ctx context.Context) ([]signature.StoredProfileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]signature.StoredProfileInfo, 0, len(s.index))
	for _, r := range s.index {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoredAt.Time().Before(out[j].StoredAt.Time()) })
	return out, nil
}

var _ ports.ProfileStore = (*Store)(nil)
