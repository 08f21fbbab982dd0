package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

type SearchResult struct {
	Document string
	Metadata map[string]string
	Distance float32
}

// VectorIndex is the embedding store surface used by the pipeline. Index
// embeds and stores chunks under sequential ids derived from idPrefix; Query
// runs filtered similarity search; FullContext returns every stored chunk
// matching the filter, concatenated in chunk order. Delete is best-effort:
// callers may ignore its error.
type VectorIndex interface {
	Index(ctx context.Context, collection, idPrefix string, chunks []string, metadata map[string]string) (int, error)
	Query(ctx context.Context, collection, queryText string, filter map[string]string, topK int) ([]SearchResult, error)
	FullContext(ctx context.Context, collection string, filter map[string]string) (string, error)
	Delete(ctx context.Context, collection string, filter map[string]string) error
}

type VectorService interface {
	VectorIndex
	EnsureCollections(ctx context.Context, collections ...string) error
}

type vectorService struct {
	client     *qdrant.Client
	embedder   Embedder
	vectorSize uint64
	logger     *zap.Logger
}

func NewVectorService(urlStr, apiKey string, embedder Embedder, logger *zap.Logger) (VectorService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
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

	return &vectorService{
		client:     client,
		embedder:   embedder,
		vectorSize: 768, // text-embedding-004 size
		logger:     logger,
	}, nil
}

// EnsureCollections implements VectorService.
func (v *vectorService) EnsureCollections(ctx context.Context, collections ...string) error {
	for _, name := range collections {
		exists, err := v.client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to check collection %s: %w", name, err)
		}
		if exists {
			continue
		}

		err = v.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     v.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}

		v.logger.Info("qdrant collection created", zap.String("collection", name))
	}
	return nil
}

// Index implements VectorIndex. Each chunk is stored under a deterministic
// point id derived from "{idPrefix}_chunk_{i}" so re-indexing the same
// entity overwrites rather than duplicates.
func (v *vectorService) Index(ctx context.Context, collection, idPrefix string, chunks []string, metadata map[string]string) (int, error) {
	points := make([]*qdrant.PointStruct, 0, len(chunks))

	for i, chunk := range chunks {
		embedding, err := v.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		payload := map[string]interface{}{
			"text":     chunk,
			"chunk_id": i,
		}
		for k, val := range metadata {
			payload[k] = val
		}

		pointID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s_chunk_%d", idPrefix, i)))

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID.String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	if len(points) == 0 {
		return 0, nil
	}

	_, err := v.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert points: %w", err)
	}

	return len(points), nil
}

// Query implements VectorIndex.
func (v *vectorService) Query(ctx context.Context, collection, queryText string, filter map[string]string, topK int) ([]SearchResult, error) {
	embedding, err := v.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := v.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult))
	for _, point := range searchResult {
		results = append(results, SearchResult{
			Document: payloadString(point.Payload, "text"),
			Metadata: payloadMetadata(point.Payload),
			Distance: point.Score,
		})
	}

	return results, nil
}

// FullContext implements VectorIndex.
func (v *vectorService) FullContext(ctx context.Context, collection string, filter map[string]string) (string, error) {
	points, err := v.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Filter:         buildFilter(filter),
		Limit:          qdrant.PtrOf(uint32(256)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to scroll points: %w", err)
	}

	type orderedChunk struct {
		order int64
		text  string
	}

	chunks := make([]orderedChunk, 0, len(points))
	for _, point := range points {
		chunks = append(chunks, orderedChunk{
			order: payloadInt(point.Payload, "chunk_id"),
			text:  payloadString(point.Payload, "text"),
		})
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].order < chunks[j].order })

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.text)
	}

	return strings.Join(texts, "\n\n"), nil
}

// Delete implements VectorIndex.
func (v *vectorService) Delete(ctx context.Context, collection string, filter map[string]string) error {
	_, err := v.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: buildFilter(filter),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

func buildFilter(filter map[string]string) *qdrant.Filter {
	if len(filter) == 0 {
		return nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]*qdrant.Condition, 0, len(keys))
	for _, k := range keys {
		conditions = append(conditions, qdrant.NewMatch(k, filter[k]))
	}

	return &qdrant.Filter{Must: conditions}
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}

func payloadInt(payload map[string]*qdrant.Value, key string) int64 {
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_IntegerValue); ok {
			return val.IntegerValue
		}
	}
	return 0
}

func payloadMetadata(payload map[string]*qdrant.Value) map[string]string {
	metadata := make(map[string]string, len(payload))
	for key, value := range payload {
		if key == "text" {
			continue
		}
		if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			metadata[key] = val.StringValue
		}
	}
	return metadata
}
