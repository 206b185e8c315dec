package embeddings

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/herald-lol/brainprint/backend/internal/models"
)

// FileProvider streams the "word v1 v2 ... vD" text format of spec §6
// into memory: an optional leading "<count> <dim>" header, one fixed
// language per file, dimension enforcement, an optional max-count cap,
// and optional on-load renormalization. Malformed lines are skipped,
// not fatal.
type FileProvider struct {
	Language     string
	Dim          int
	MaxCount     int // 0 = unbounded
	Renormalize  bool

	mu     sync.RWMutex
	byWord map[string]models.WordEmbedding
}

// NewFileProvider constructs an empty provider for the given language
// and expected dimension; call Load to ingest a file.
func NewFileProvider(language string, dim int, maxCount int, renormalize bool) *FileProvider {
	return &FileProvider{
		Language:    language,
		Dim:         dim,
		MaxCount:    maxCount,
		Renormalize: renormalize,
		byWord:      make(map[string]models.WordEmbedding),
	}
}

// Load ingests r per the wire format in spec §6. It returns the count
// of embeddings loaded.
func (p *FileProvider) Load(r io.Reader) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	first := true
	loaded := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if looksLikeHeader(line) {
				continue
			}
		}
		if p.MaxCount > 0 && loaded >= p.MaxCount {
			break
		}
		fields := strings.Fields(line)
		if len(fields) != p.Dim+1 {
			continue // malformed line: skipped per spec §6
		}
		word := strings.ToLower(fields[0])
		vec := make(models.Vector, p.Dim)
		ok := true
		for i := 0; i < p.Dim; i++ {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vec[i] = f
		}
		if !ok {
			continue
		}
		if p.Renormalize {
			vec = normalizeInPlace(vec)
		}
		p.byWord[word] = models.WordEmbedding{Word: word, Language: p.Language, Vector: vec}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("reading embedding file: %w", err)
	}
	return loaded, nil
}

func looksLikeHeader(line string) bool {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}

func normalizeInPlace(v models.Vector) models.Vector {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	for i := range v {
		v[i] /= norm
	}
	return v
}

func (p *FileProvider) Get(ctx context.Context, word, language string) (models.WordEmbedding, error) {
	if language != p.Language {
		return models.WordEmbedding{}, notFound(word, language)
	}
	word = strings.ToLower(word)
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.byWord[word]
	if !ok {
		return models.WordEmbedding{}, notFound(word, language)
	}
	return e, nil
}

func (p *FileProvider) Has(ctx context.Context, word, language string) bool {
	if language != p.Language {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byWord[strings.ToLower(word)]
	return ok
}
