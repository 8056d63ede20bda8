package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hubscout/hubscout/internal/types"
)

const (
	// MaxLimit bounds the result count a single request may ask for.
	MaxLimit = 100
)

// Backend is the slice of the search client the dispatcher depends on.
type Backend interface {
	SearchBM25(ctx context.Context, indexName string, query *BM25Query) (*BM25SearchResponse, error)
	SearchDenseVector(ctx context.Context, indexName string, query *VectorQuery) (*VectorSearchResponse, error)
}

// Embedder generates the query embedding for dense-vector modes.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

type cacheKey struct {
	mode  types.SearchMode
	text  string
	limit int
}

// Dispatcher maps a QueryRequest onto one of three backend query shapes and
// normalizes the hits into SearchRecords. Results are memoized per exact
// (mode, text, limit) for the lifetime of the process, so UI re-renders of
// the same query never reach the backend twice. There is no eviction; at
// demo scale the cache stays small, a long-lived deployment would need a
// bound here.
type Dispatcher struct {
	backend  Backend
	embedder Embedder
	index    string
	fusion   *FusionEngine

	mu    sync.Mutex
	cache map[cacheKey][]types.SearchRecord
}

// NewDispatcher creates a dispatcher querying the given index.
func NewDispatcher(backend Backend, embedder Embedder, index string) *Dispatcher {
	return &Dispatcher{
		backend:  backend,
		embedder: embedder,
		index:    index,
		fusion:   NewFusionEngine(60.0),
		cache:    make(map[cacheKey][]types.SearchRecord),
	}
}

// Dispatch executes the request and returns records ordered by relevance
// score descending. An empty query text returns an empty sequence without
// touching the backend. Backend failures propagate unretried.
func (d *Dispatcher) Dispatch(ctx context.Context, req types.QueryRequest) ([]types.SearchRecord, error) {
	if req.Limit < 0 {
		req.Limit = 0
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}

	if strings.TrimSpace(req.Text) == "" {
		return []types.SearchRecord{}, nil
	}

	// Zero results requested: nothing the backend could add.
	if req.Limit == 0 {
		return []types.SearchRecord{}, nil
	}

	key := cacheKey{mode: req.Mode, text: req.Text, limit: req.Limit}

	d.mu.Lock()
	if cached, ok := d.cache[key]; ok {
		d.mu.Unlock()
		log.Printf("Cache hit for %s query %q (limit %d)", req.Mode, req.Text, req.Limit)
		return cached, nil
	}
	d.mu.Unlock()

	var (
		records []types.SearchRecord
		err     error
	)

	switch req.Mode {
	case types.ModeBM25:
		records, err = d.dispatchBM25(ctx, req)
	case types.ModeNearText:
		records, err = d.dispatchNearText(ctx, req)
	case types.ModeHybrid:
		records, err = d.dispatchHybrid(ctx, req)
	default:
		return nil, NewSearchError(types.ErrorTypeValidation, fmt.Sprintf("unknown search mode: %q", req.Mode))
	}

	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.cache[key] = records
	d.mu.Unlock()

	return records, nil
}

func (d *Dispatcher) dispatchBM25(ctx context.Context, req types.QueryRequest) ([]types.SearchRecord, error) {
	resp, err := d.backend.SearchBM25(ctx, d.index, &BM25Query{
		Query: req.Text,
		Size:  req.Limit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.SearchRecord, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		record, err := recordFromSource(hit.Source, hit.Score)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (d *Dispatcher) dispatchNearText(ctx context.Context, req types.QueryRequest) ([]types.SearchRecord, error) {
	vector, err := d.embedder.GenerateEmbedding(ctx, req.Text)
	if err != nil {
		return nil, NewSearchError(types.ErrorTypeEmbedding, fmt.Sprintf("embedding generation failed: %v", err))
	}

	resp, err := d.backend.SearchDenseVector(ctx, d.index, &VectorQuery{
		Vector: vector,
		K:      req.Limit,
		Size:   req.Limit,
	})
	if err != nil {
		return nil, err
	}

	records := make([]types.SearchRecord, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		record, err := recordFromSource(hit.Source, hit.Score)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// dispatchHybrid runs both legs in parallel and fuses them with reciprocal
// rank fusion. Either leg failing fails the whole query; the UI reports the
// error instead of rendering a partial ranking.
func (d *Dispatcher) dispatchHybrid(ctx context.Context, req types.QueryRequest) ([]types.SearchRecord, error) {
	var (
		bm25Resp   *BM25SearchResponse
		vectorResp *VectorSearchResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := d.backend.SearchBM25(gCtx, d.index, &BM25Query{
			Query: req.Text,
			Size:  req.Limit,
		})
		if err != nil {
			return err
		}
		bm25Resp = resp
		return nil
	})

	g.Go(func() error {
		vector, err := d.embedder.GenerateEmbedding(gCtx, req.Text)
		if err != nil {
			return NewSearchError(types.ErrorTypeEmbedding, fmt.Sprintf("embedding generation failed: %v", err))
		}

		resp, err := d.backend.SearchDenseVector(gCtx, d.index, &VectorQuery{
			Vector: vector,
			K:      req.Limit,
			Size:   req.Limit,
		})
		if err != nil {
			return err
		}
		vectorResp = resp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused, err := d.fusion.FuseResults(bm25Resp, vectorResp, FusionMethodRRF, 0.5, 0.5)
	if err != nil {
		return nil, NewSearchError(types.ErrorTypeResponse, fmt.Sprintf("result fusion failed: %v", err))
	}

	docs := d.fusion.LimitResults(fused.Documents, req.Limit)

	records := make([]types.SearchRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := recordFromSource(doc.Source, doc.FusedScore)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// recordFromSource normalizes a backend hit into a SearchRecord. The score
// is always populated, whichever query shape produced the hit.
func recordFromSource(source json.RawMessage, score float64) (types.SearchRecord, error) {
	var record types.SearchRecord
	if err := json.Unmarshal(source, &record); err != nil {
		return types.SearchRecord{}, NewSearchError(types.ErrorTypeResponse,
			fmt.Sprintf("malformed document in backend response: %v", err))
	}
	record.Score = score
	return record, nil
}
