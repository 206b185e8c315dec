package embeddings

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/herald-lol/brainprint/backend/internal/vectorops"
)

// embeddingRow is the gorm-mapped persistence shape: the vector is
// stored as JSON text, mirroring the teacher's "store a structured
// blob as a text column" idiom (models.SkillProgressionAnalysis.AnalysisData
// in the source repo).
type embeddingRow struct {
	Word       string `gorm:"primaryKey;size:128"`
	Language   string `gorm:"primaryKey;size:16"`
	VectorJSON string `gorm:"type:text"`
	MetaJSON   string `gorm:"type:text"`
}

func (embeddingRow) TableName() string { return "word_embeddings" }

// DBProvider is the network/DB-backed provider of spec §4.2: a
// single-row fetch by (word, language), plus a best-effort
// FindSimilar that loads every stored row for the language and scores
// it in-process; no cache or vector index is used.
type DBProvider struct {
	db *gorm.DB
}

func NewDBProvider(db *gorm.DB) *DBProvider {
	return &DBProvider{db: db}
}

// Migrate creates the word_embeddings table this provider reads and
// writes. Only needed when Provider is "db"; callers using the file or
// mock provider can skip it.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&embeddingRow{})
}

func (p *DBProvider) Get(ctx context.Context, word, language string) (models.WordEmbedding, error) {
	word = strings.ToLower(word)
	var row embeddingRow
	err := p.db.WithContext(ctx).
		Where("word = ? AND language = ?", word, language).
		First(&row).Error
	if err != nil {
		return models.WordEmbedding{}, notFound(word, language)
	}
	return rowToEmbedding(row), nil
}

func (p *DBProvider) Has(ctx context.Context, word, language string) bool {
	word = strings.ToLower(word)
	var count int64
	p.db.WithContext(ctx).Model(&embeddingRow{}).
		Where("word = ? AND language = ?", word, language).
		Count(&count)
	return count > 0
}

// StoreMany upserts a batch of embeddings, returning the count
// written.
func (p *DBProvider) StoreMany(ctx context.Context, embeddings []models.WordEmbedding) (int, error) {
	rows := make([]embeddingRow, 0, len(embeddings))
	for _, e := range embeddings {
		row, err := embeddingToRow(e)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := p.db.WithContext(ctx).Save(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

// FindSimilar scans every row for the given language and ranks by
// cosine similarity to v, returning the top k. This is a simplified
// stand-in for the vector-similarity RPC named in spec §6; real
// deployments would push this down to a vector index.
func (p *DBProvider) FindSimilar(ctx context.Context, v models.Vector, language string, k int) ([]ScoredWord, error) {
	var rows []embeddingRow
	if err := p.db.WithContext(ctx).Where("language = ?", language).Find(&rows).Error; err != nil {
		return nil, err
	}
	scored := make([]ScoredWord, 0, len(rows))
	for _, row := range rows {
		e := rowToEmbedding(row)
		cos, err := vectorops.Cosine(v, e.Vector)
		if err != nil {
			continue
		}
		scored = append(scored, ScoredWord{Word: e.Word, Score: cos})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func rowToEmbedding(row embeddingRow) models.WordEmbedding {
	e := models.WordEmbedding{Word: row.Word, Language: row.Language}
	_ = json.Unmarshal([]byte(row.VectorJSON), &e.Vector)
	if row.MetaJSON != "" {
		_ = json.Unmarshal([]byte(row.MetaJSON), &e.Metadata)
	}
	return e
}

func embeddingToRow(e models.WordEmbedding) (embeddingRow, error) {
	vecJSON, err := json.Marshal(e.Vector)
	if err != nil {
		return embeddingRow{}, err
	}
	metaJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return embeddingRow{}, err
	}
	return embeddingRow{
		Word:       strings.ToLower(e.Word),
		Language:   e.Language,
		VectorJSON: string(vecJSON),
		MetaJSON:   string(metaJSON),
	}, nil
}
