package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"interview-platform/internal/apperrors"
)

// VectorService keeps one Qdrant collection per ingested document and
// performs similarity retrieval scoped to a single collection.
type VectorService interface {
	StoreDocument(ctx context.Context, collectionName, documentID string, chunks []string) error
	Retrieve(ctx context.Context, collectionName, queryText string, topK int) ([]RetrievedChunk, error)
	DeleteCollection(ctx context.Context, collectionName string) error
	CheckHealth(ctx context.Context) bool
}

type RetrievedChunk struct {
	Text       string
	Score      float32
	ChunkIndex int
}

type vectorService struct {
	client  *qdrant.Client
	llm     LLMService
	timeout time.Duration
}

func NewVectorService(urlStr, apiKey string, llm LLMService, timeout time.Duration) (VectorService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port 6334 unless the URL says otherwise
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &vectorService{client: client, llm: llm, timeout: timeout}, nil
}

// opCtx bounds a single Qdrant call. Request contexts carry no deadline
// of their own, so a stalled store would otherwise block forever.
func (v *vectorService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, v.timeout)
}

// StoreDocument implements VectorService. Re-storing a document drops
// and recreates its collection, so ingest is idempotent per document.
func (v *vectorService) StoreDocument(ctx context.Context, collectionName, documentID string, chunks []string) error {
	if len(chunks) == 0 {
		return apperrors.New(apperrors.KindInvalidConfiguration, "document %s produced no chunks", documentID)
	}

	embeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := v.llm.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}
		embeddings = append(embeddings, embedding)
	}

	existsCtx, cancel := v.opCtx(ctx)
	exists, err := v.client.CollectionExists(existsCtx, collectionName)
	cancel()
	if err != nil {
		return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to check collection %s", collectionName)
	}
	if exists {
		deleteCtx, cancel := v.opCtx(ctx)
		err := v.client.DeleteCollection(deleteCtx, collectionName)
		cancel()
		if err != nil {
			return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to replace collection %s", collectionName)
		}
	}

	createCtx, cancel := v.opCtx(ctx)
	err = v.client.CreateCollection(createCtx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(len(embeddings[0])),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	cancel()
	if err != nil {
		return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to create collection %s", collectionName)
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"document_id": documentID,
				"chunk_index": i,
				"text":        chunk,
			}),
		})
	}

	upsertCtx, cancel := v.opCtx(ctx)
	_, err = v.client.Upsert(upsertCtx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
	})
	cancel()
	if err != nil {
		return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to upsert points into %s", collectionName)
	}

	return nil
}

// Retrieve implements VectorService. topK is clamped to the collection
// size; results come back in descending similarity order.
func (v *vectorService) Retrieve(ctx context.Context, collectionName, queryText string, topK int) ([]RetrievedChunk, error) {
	existsCtx, cancel := v.opCtx(ctx)
	exists, err := v.client.CollectionExists(existsCtx, collectionName)
	cancel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to check collection %s", collectionName)
	}
	if !exists {
		return nil, apperrors.New(apperrors.KindCollectionNotFound, "collection %s has never been stored", collectionName)
	}

	countCtx, cancel := v.opCtx(ctx)
	count, err := v.client.Count(countCtx, &qdrant.CountPoints{
		CollectionName: collectionName,
	})
	cancel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to count points in %s", collectionName)
	}

	topK = clampTopK(topK, count)
	if topK == 0 {
		return nil, nil
	}

	queryEmbedding, err := v.llm.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	queryCtx, cancel := v.opCtx(ctx)
	searchResult, err := v.client.Query(queryCtx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	cancel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to query %s", collectionName)
	}

	var results []RetrievedChunk
	for _, point := range searchResult {
		chunk := RetrievedChunk{Score: point.Score}

		if text, ok := point.Payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				chunk.Text = val.StringValue
			}
		}
		if idx, ok := point.Payload["chunk_index"]; ok {
			if val, ok := idx.GetKind().(*qdrant.Value_IntegerValue); ok {
				chunk.ChunkIndex = int(val.IntegerValue)
			}
		}

		results = append(results, chunk)
	}

	return results, nil
}

// clampTopK bounds a retrieval request to what the collection holds.
// Non-positive requests ask for a single best match.
func clampTopK(topK int, available uint64) int {
	if topK <= 0 {
		topK = 1
	}
	if uint64(topK) > available {
		topK = int(available)
	}
	return topK
}

// DeleteCollection implements VectorService.
func (v *vectorService) DeleteCollection(ctx context.Context, collectionName string) error {
	deleteCtx, cancel := v.opCtx(ctx)
	defer cancel()

	if err := v.client.DeleteCollection(deleteCtx, collectionName); err != nil {
		return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "failed to delete collection %s", collectionName)
	}
	return nil
}

// CheckHealth implements VectorService.
func (v *vectorService) CheckHealth(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := v.client.ListCollections(healthCtx)
	return err == nil
}
