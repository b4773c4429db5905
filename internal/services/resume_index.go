package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
)

const (
	indexChunkSize    = 1500
	indexChunkOverlap = 150
)

// ResumeIndex keeps a vector index of resume texts for similarity lookups.
type ResumeIndex interface {
	Index(ctx context.Context, log *models.ResumeLog) error
	FindSimilar(ctx context.Context, log *models.ResumeLog, limit int) ([]SimilarMatch, error)
}

type SimilarMatch struct {
	ResumeLogID uuid.UUID
	Score       float32
}

type resumeIndex struct {
	qdrant  QdrantService
	gemini  GeminiService
	chunker TextChunker
	logger  *zap.Logger
}

func NewResumeIndex(qdrant QdrantService, gemini GeminiService, chunker TextChunker, logger *zap.Logger) ResumeIndex {
	return &resumeIndex{
		qdrant:  qdrant,
		gemini:  gemini,
		chunker: chunker,
		logger:  logger,
	}
}

// NewResumeIndexFromConfig connects to qdrant and prepares the collection. It
// returns a nil index when no qdrant URL is configured.
func NewResumeIndexFromConfig(ctx context.Context, cfg config.QdrantConfig, gemini GeminiService, logger *zap.Logger) (ResumeIndex, error) {
	if !cfg.Enabled() {
		logger.Info("qdrant not configured, similarity index disabled")
		return nil, nil
	}

	qdrantService, err := NewQdrantService(cfg.URL, cfg.APIKey, cfg.Collection, logger)
	if err != nil {
		return nil, err
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		return nil, err
	}

	return NewResumeIndex(qdrantService, gemini, NewTextChunker(), logger), nil
}

// Index embeds every chunk of the resume text and replaces the points stored
// for the log. Point ids derive from the log id and chunk number.
func (ri *resumeIndex) Index(ctx context.Context, log *models.ResumeLog) error {
	if log.ResumeText == nil || *log.ResumeText == "" {
		return nil
	}

	pieces := ri.chunker.ChunkText(*log.ResumeText, indexChunkSize, indexChunkOverlap)
	chunks := make([]IndexedChunk, 0, len(pieces))

	for i, piece := range pieces {
		embedding, err := ri.gemini.GenerateEmbedding(ctx, piece)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d of resume %s: %w", i, log.ID, err)
		}
		chunks = append(chunks, IndexedChunk{
			PointID:     uuid.NewSHA1(log.ID, []byte(strconv.Itoa(i))).String(),
			ResumeLogID: log.ID.String(),
			JobTitle:    log.JobTitle,
			Text:        piece,
			Embedding:   embedding,
		})
	}

	// a shorter text yields fewer chunks; drop the old tail first
	if err := ri.qdrant.DeleteResume(ctx, log.ID.String()); err != nil {
		return err
	}
	if err := ri.qdrant.UpsertChunks(ctx, chunks); err != nil {
		return err
	}

	ri.logger.Debug("resume indexed", zap.String("resume_log_id", log.ID.String()), zap.Int("chunks", len(chunks)))
	return nil
}

// FindSimilar returns other resume logs ranked by their best matching chunk.
func (ri *resumeIndex) FindSimilar(ctx context.Context, log *models.ResumeLog, limit int) ([]SimilarMatch, error) {
	if log.ResumeText == nil || *log.ResumeText == "" {
		return nil, fmt.Errorf("resume %s has no text to compare", log.ID)
	}
	if limit <= 0 {
		limit = 5
	}

	query := *log.ResumeText
	if pieces := ri.chunker.ChunkText(query, indexChunkSize, 0); len(pieces) > 0 {
		query = pieces[0]
	}

	embedding, err := ri.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	// several chunks of one resume can match; over-fetch and keep the best per log
	results, err := ri.qdrant.SearchSimilar(ctx, embedding, log.ID.String(), limit*4)
	if err != nil {
		return nil, err
	}

	return bestPerResume(results, limit), nil
}

func bestPerResume(results []SearchResult, limit int) []SimilarMatch {
	best := make(map[uuid.UUID]float32)
	for _, r := range results {
		id, err := uuid.Parse(r.ResumeLogID)
		if err != nil {
			continue
		}
		if score, ok := best[id]; !ok || r.Score > score {
			best[id] = r.Score
		}
	}

	matches := make([]SimilarMatch, 0, len(best))
	for id, score := range best {
		matches = append(matches, SimilarMatch{ResumeLogID: id, Score: score})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].ResumeLogID.String() < matches[j].ResumeLogID.String()
		}
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
