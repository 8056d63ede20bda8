package search

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// FusionEngine merges BM25 and vector result lists into one ranking.
type FusionEngine struct {
	rankConstant float64
}

type ScoredDoc struct {
	ID          string          `json:"id"`
	BM25Score   float64         `json:"bm25_score,omitempty"`
	VectorScore float64         `json:"vector_score,omitempty"`
	FusedScore  float64         `json:"fused_score"`
	Source      json.RawMessage `json:"source"`
	Index       string          `json:"index"`
	Rank        int             `json:"rank"`
	SearchType  string          `json:"search_type"`
}

type FusionResult struct {
	Documents     []ScoredDoc `json:"documents"`
	TotalHits     int         `json:"total_hits"`
	MaxScore      float64     `json:"max_score"`
	BM25Results   int         `json:"bm25_results"`
	VectorResults int         `json:"vector_results"`
	FusionType    string      `json:"fusion_type"`
}

type FusionMethod string

const (
	FusionMethodRRF         FusionMethod = "rrf"
	FusionMethodWeightedSum FusionMethod = "weighted_sum"
	FusionMethodMaxScore    FusionMethod = "max_score"
)

func NewFusionEngine(rankConstant float64) *FusionEngine {
	if rankConstant <= 0 {
		rankConstant = 60.0
	}
	return &FusionEngine{
		rankConstant: rankConstant,
	}
}

func (fe *FusionEngine) FuseResults(bm25Results *BM25SearchResponse, vectorResults *VectorSearchResponse, method FusionMethod, bm25Weight, vectorWeight float64) (*FusionResult, error) {
	if bm25Results == nil && vectorResults == nil {
		return nil, fmt.Errorf("at least one search result must be provided")
	}

	bm25Docs := convertBM25Results(bm25Results)
	vectorDocs := convertVectorResults(vectorResults)

	switch method {
	case FusionMethodWeightedSum:
		return fe.fuseWithWeightedSum(bm25Docs, vectorDocs, bm25Weight, vectorWeight)
	case FusionMethodMaxScore:
		return fe.fuseWithMaxScore(bm25Docs, vectorDocs)
	default:
		return fe.fuseWithRRF(bm25Docs, vectorDocs)
	}
}

func convertBM25Results(results *BM25SearchResponse) []ScoredDoc {
	if results == nil || len(results.Hits.Hits) == 0 {
		return []ScoredDoc{}
	}

	docs := make([]ScoredDoc, len(results.Hits.Hits))
	for i, hit := range results.Hits.Hits {
		docs[i] = ScoredDoc{
			ID:         hit.ID,
			BM25Score:  hit.Score,
			Source:     hit.Source,
			Index:      hit.Index,
			Rank:       i + 1,
			SearchType: "bm25",
		}
	}
	return docs
}

func convertVectorResults(results *VectorSearchResponse) []ScoredDoc {
	if results == nil || len(results.Hits.Hits) == 0 {
		return []ScoredDoc{}
	}

	docs := make([]ScoredDoc, len(results.Hits.Hits))
	for i, hit := range results.Hits.Hits {
		docs[i] = ScoredDoc{
			ID:          hit.ID,
			VectorScore: hit.Score,
			Source:      hit.Source,
			Index:       hit.Index,
			Rank:        i + 1,
			SearchType:  "vector",
		}
	}
	return docs
}

func (fe *FusionEngine) fuseWithRRF(bm25Docs, vectorDocs []ScoredDoc) (*FusionResult, error) {
	docMap := make(map[string]*ScoredDoc)

	for _, doc := range bm25Docs {
		docCopy := doc
		docCopy.FusedScore = 1.0 / (fe.rankConstant + float64(doc.Rank))
		docMap[doc.ID] = &docCopy
	}

	for _, doc := range vectorDocs {
		rrfScore := 1.0 / (fe.rankConstant + float64(doc.Rank))

		if existing, exists := docMap[doc.ID]; exists {
			existing.FusedScore += rrfScore
			existing.VectorScore = doc.VectorScore
			existing.SearchType = "hybrid"
		} else {
			docCopy := doc
			docCopy.FusedScore = rrfScore
			docMap[doc.ID] = &docCopy
		}
	}

	return fe.buildResult(docMap, len(bm25Docs), len(vectorDocs), FusionMethodRRF), nil
}

func (fe *FusionEngine) fuseWithWeightedSum(bm25Docs, vectorDocs []ScoredDoc, bm25Weight, vectorWeight float64) (*FusionResult, error) {
	if bm25Weight < 0 || vectorWeight < 0 {
		return nil, fmt.Errorf("weights must be non-negative")
	}

	if bm25Weight == 0 && vectorWeight == 0 {
		bm25Weight, vectorWeight = 0.5, 0.5
	}

	totalWeight := bm25Weight + vectorWeight
	bm25Weight = bm25Weight / totalWeight
	vectorWeight = vectorWeight / totalWeight

	bm25Max, vectorMax := findMaxScores(bm25Docs, vectorDocs)
	docMap := make(map[string]*ScoredDoc)

	for _, doc := range bm25Docs {
		docCopy := doc
		docCopy.FusedScore = doc.BM25Score / bm25Max * bm25Weight
		docMap[doc.ID] = &docCopy
	}

	for _, doc := range vectorDocs {
		weightedScore := doc.VectorScore / vectorMax * vectorWeight

		if existing, exists := docMap[doc.ID]; exists {
			existing.FusedScore += weightedScore
			existing.VectorScore = doc.VectorScore
			existing.SearchType = "hybrid"
		} else {
			docCopy := doc
			docCopy.FusedScore = weightedScore
			docMap[doc.ID] = &docCopy
		}
	}

	return fe.buildResult(docMap, len(bm25Docs), len(vectorDocs), FusionMethodWeightedSum), nil
}

func (fe *FusionEngine) fuseWithMaxScore(bm25Docs, vectorDocs []ScoredDoc) (*FusionResult, error) {
	bm25Max, vectorMax := findMaxScores(bm25Docs, vectorDocs)
	docMap := make(map[string]*ScoredDoc)

	for _, doc := range bm25Docs {
		docCopy := doc
		docCopy.FusedScore = doc.BM25Score / bm25Max
		docMap[doc.ID] = &docCopy
	}

	for _, doc := range vectorDocs {
		normalizedScore := doc.VectorScore / vectorMax

		if existing, exists := docMap[doc.ID]; exists {
			existing.FusedScore = math.Max(existing.FusedScore, normalizedScore)
			existing.VectorScore = doc.VectorScore
			existing.SearchType = "hybrid"
		} else {
			docCopy := doc
			docCopy.FusedScore = normalizedScore
			docMap[doc.ID] = &docCopy
		}
	}

	return fe.buildResult(docMap, len(bm25Docs), len(vectorDocs), FusionMethodMaxScore), nil
}

// buildResult sorts fused documents by score descending and reassigns ranks.
func (fe *FusionEngine) buildResult(docMap map[string]*ScoredDoc, bm25Count, vectorCount int, method FusionMethod) *FusionResult {
	fusedDocs := make([]ScoredDoc, 0, len(docMap))
	maxScore := 0.0

	for _, doc := range docMap {
		if doc.FusedScore > maxScore {
			maxScore = doc.FusedScore
		}
		fusedDocs = append(fusedDocs, *doc)
	}

	sort.Slice(fusedDocs, func(i, j int) bool {
		return fusedDocs[i].FusedScore > fusedDocs[j].FusedScore
	})

	for i := range fusedDocs {
		fusedDocs[i].Rank = i + 1
	}

	return &FusionResult{
		Documents:     fusedDocs,
		TotalHits:     len(fusedDocs),
		MaxScore:      maxScore,
		BM25Results:   bm25Count,
		VectorResults: vectorCount,
		FusionType:    string(method),
	}
}

func findMaxScores(bm25Docs, vectorDocs []ScoredDoc) (float64, float64) {
	bm25Max := 0.0
	vectorMax := 0.0

	for _, doc := range bm25Docs {
		if doc.BM25Score > bm25Max {
			bm25Max = doc.BM25Score
		}
	}

	for _, doc := range vectorDocs {
		if doc.VectorScore > vectorMax {
			vectorMax = doc.VectorScore
		}
	}

	if bm25Max == 0 {
		bm25Max = 1.0
	}
	if vectorMax == 0 {
		vectorMax = 1.0
	}

	return bm25Max, vectorMax
}

// LimitResults truncates a fused ranking to the requested size.
func (fe *FusionEngine) LimitResults(docs []ScoredDoc, limit int) []ScoredDoc {
	if limit <= 0 || limit >= len(docs) {
		return docs
	}

	return docs[:limit]
}
