package embedding

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dataprofiler/internal"
	"dataprofiler/ports"
)

const defaultInitBudget = 30 * time.Second

// LearnedFactory constructs the external learned embedding backend. It is
// given initBudget and should return promptly if it cannot connect within
// it; Service treats any error as non-fatal and falls back to hashing.
type LearnedFactory func(ctx context.Context) (ports.EmbeddingService, error)

// Service is the process-wide EmbeddingService: a learned backend promoted
// behind a singleflight-guarded lazy initializer, falling back to the
// hash-based embedder on failure or timeout (spec §4.5).
type Service struct {
	hash       *HashEmbedder
	factory    LearnedFactory
	initBudget time.Duration
	logger     *internal.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	active ports.EmbeddingService // nil until Init resolves
}

// New constructs a Service. factory may be nil, in which case the hash
// embedder is used immediately and Init is a no-op.
func New(factory LearnedFactory, initBudget time.Duration, logger *internal.Logger) *Service {
	if initBudget <= 0 {
		initBudget = defaultInitBudget
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Service{hash: NewHashEmbedder(), factory: factory, initBudget: initBudget, logger: logger}
	if factory == nil {
		s.active = s.hash
	}
	return s
}

// ensureInit lazily resolves the active backend once, coalescing concurrent
// callers behind a single in-flight initialization.
func (s *Service) ensureInit(ctx context.Context) ports.EmbeddingService {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if active != nil {
		return active
	}

	result, _, _ := s.group.Do("init", func() (interface{}, error) {
		s.mu.RLock()
		if s.active != nil {
			defer s.mu.RUnlock()
			return s.active, nil
		}
		s.mu.RUnlock()

		initCtx, cancel := context.WithTimeout(context.Background(), s.initBudget)
		defer cancel()

		backend, err := s.factory(initCtx)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil || backend == nil {
			s.logger.Warn("learned embedding backend unavailable, falling back to hash: %v", err)
			s.active = s.hash
		} else {
			s.active = backend
		}
		return s.active, nil
	})
	return result.(ports.EmbeddingService)
}

func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.ensureInit(ctx).Embed(ctx, text)
}

func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.ensureInit(ctx).EmbedBatch(ctx, texts)
}

func (s *Service) Dimension() int {
	return s.ensureInit(context.Background()).Dimension()
}

func (s *Service) Kind() string {
	return s.ensureInit(context.Background()).Kind()
}

var _ ports.EmbeddingService = (*Service)(nil)
