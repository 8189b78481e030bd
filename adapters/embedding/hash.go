// Package embedding implements EmbeddingService: a dependency-free
// hash-based embedder plus a singleflight-guarded initializer that can
// promote to an external learned backend (spec §4.5).
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"unicode"
)

const hashDimension = 128

// HashEmbedder implements ports.EmbeddingService with no external
// dependencies: token hashing into a fixed-width bag-of-hashes vector.
type HashEmbedder struct{}

// NewHashEmbedder constructs the always-available fallback embedder.
func NewHashEmbedder() *HashEmbedder { return &HashEmbedder{} }

func (h *HashEmbedder) Dimension() int { return hashDimension }
func (h *HashEmbedder) Kind() string   { return "hash" }

// Embed tokenizes text into maximal runs of letters/digits, hashes each
// token into a bucket via sha256 mod D, and L2-normalizes the result.
func (h *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float64, hashDimension)
	for _, token := range tokenize(text) {
		vec[bucketFor(token)]++
	}
	return normalize(vec), nil
}

func (h *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := h.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func bucketFor(token string) int {
	sum := sha256.Sum256([]byte(token))
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % hashDimension)
}

func normalize(vec []float64) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += v * v
	}
	out := make([]float32, len(vec))
	if sumSq == 0 {
		return out
	}
	norm := math.Sqrt(sumSq)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
