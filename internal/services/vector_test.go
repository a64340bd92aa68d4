package services

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"interview-platform/internal/apperrors"
)

func TestClampTopK(t *testing.T) {
	cases := []struct {
		name      string
		topK      int
		available uint64
		want      int
	}{
		{"request exceeds collection", 10, 5, 5},
		{"request within collection", 3, 5, 3},
		{"request equals collection", 5, 5, 5},
		{"zero request asks for one", 0, 5, 1},
		{"negative request asks for one", -2, 5, 1},
		{"empty collection", 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampTopK(tc.topK, tc.available); got != tc.want {
				t.Errorf("clampTopK(%d, %d) = %d, want %d", tc.topK, tc.available, got, tc.want)
			}
		})
	}
}

// memoryVectorStore is a minimal in-memory VectorService used to pin
// down the retrieval contract end to end: topK clamped to the stored
// chunk count, results in descending similarity order.
type memoryVectorStore struct {
	mu          sync.Mutex
	collections map[string][]RetrievedChunk
}

func newMemoryVectorStore() *memoryVectorStore {
	return &memoryVectorStore{collections: map[string][]RetrievedChunk{}}
}

func (m *memoryVectorStore) StoreDocument(ctx context.Context, collectionName, documentID string, chunks []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]RetrievedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		stored = append(stored, RetrievedChunk{
			Text:       chunk,
			ChunkIndex: i,
			Score:      1 - float32(i)*0.1,
		})
	}
	// Re-store replaces the collection wholesale.
	m.collections[collectionName] = stored
	return nil
}

func (m *memoryVectorStore) Retrieve(ctx context.Context, collectionName, queryText string, topK int) ([]RetrievedChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chunks, ok := m.collections[collectionName]
	if !ok {
		return nil, apperrors.New(apperrors.KindCollectionNotFound, "collection %s has never been stored", collectionName)
	}
	topK = clampTopK(topK, uint64(len(chunks)))
	if topK == 0 {
		return nil, nil
	}
	out := make([]RetrievedChunk, topK)
	copy(out, chunks[:topK])
	return out, nil
}

func (m *memoryVectorStore) DeleteCollection(ctx context.Context, collectionName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collectionName)
	return nil
}

func (m *memoryVectorStore) CheckHealth(ctx context.Context) bool { return true }

func TestRetrieveClampsToCollectionSize(t *testing.T) {
	store := newMemoryVectorStore()
	ctx := context.Background()

	chunks := make([]string, 5)
	for i := range chunks {
		chunks[i] = fmt.Sprintf("chunk %d", i)
	}
	if err := store.StoreDocument(ctx, "reference_doc", "doc", chunks); err != nil {
		t.Fatal(err)
	}

	results, err := store.Retrieve(ctx, "reference_doc", "query", 10)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected exactly 5 results for top_k=10 over 5 chunks, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending similarity order at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}

	_, err = store.Retrieve(ctx, "never_stored", "query", 3)
	if !apperrors.Is(err, apperrors.KindCollectionNotFound) {
		t.Errorf("expected COLLECTION_NOT_FOUND, got %v", err)
	}
}

func TestRetrieveTimesOutWhenStoreStalls(t *testing.T) {
	// A listener that accepts connections and never speaks gRPC: without
	// per-call deadlines, Retrieve would block here forever.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	var mu sync.Mutex
	var conns []net.Conn
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	}()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	svc, err := NewVectorService("http://"+ln.Addr().String(), "", &fakeLLM{}, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewVectorService failed: %v", err)
	}

	start := time.Now()
	_, err = svc.Retrieve(context.Background(), "resume_x", "query", 3)
	elapsed := time.Since(start)

	if !apperrors.Is(err, apperrors.KindServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("call was not bounded by the configured timeout, took %s", elapsed)
	}
}
