// internal/store/match_index.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrSearchTimeout = errors.New("SEARCH_TIMEOUT")

// MatchIndexMapping is applied when the index does not exist yet.
const MatchIndexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "keyword"},
      "brandId":       {"type": "keyword"},
      "organizerId":   {"type": "keyword"},
      "brandName":     {"type": "text"},
      "productName":   {"type": "text"},
      "organizerName": {"type": "text"},
      "eventName":     {"type": "text"},
      "matchReasons":  {"type": "text"},
      "score":         {"type": "integer"},
      "status":        {"type": "keyword"},
      "createdAt":     {"type": "date"}
    }
  }
}`

var searchFields = []string{"brandName^2", "organizerName^2", "eventName^2", "productName", "matchReasons"}

// MatchDocument is the search representation of a match.
type MatchDocument struct {
	ID            string    `json:"id"`
	BrandID       string    `json:"brandId"`
	OrganizerID   string    `json:"organizerId"`
	BrandName     string    `json:"brandName"`
	ProductName   string    `json:"productName"`
	OrganizerName string    `json:"organizerName"`
	EventName     string    `json:"eventName"`
	MatchReasons  []string  `json:"matchReasons"`
	Score         int       `json:"score"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func documentFromView(v models.MatchView) MatchDocument {
	return MatchDocument{
		ID:            v.ID,
		BrandID:       v.BrandID,
		OrganizerID:   v.OrganizerID,
		BrandName:     v.BrandName,
		ProductName:   v.ProductName,
		OrganizerName: v.OrganizerName,
		EventName:     v.EventName,
		MatchReasons:  v.MatchReasons,
		Score:         v.Score,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
	}
}

// SearchQuery filters the admin search. Zero values disable a filter.
type SearchQuery struct {
	Text     string
	Status   models.MatchStatus
	MinScore int
	From     int
	Size     int
}

type SearchResult struct {
	Matches   []MatchDocument
	TotalHits int64
	MaxScore  float64
	Took      int64
}

// MatchIndex keeps an Elasticsearch copy of matches for admin search.
type MatchIndex struct {
	client  *elasticsearch.Client
	index   string
	maxSize int
}

func NewMatchIndex(client *elasticsearch.Client, index string, maxSize int) *MatchIndex {
	return &MatchIndex{client: client, index: index, maxSize: maxSize}
}

// IndexMatches bulk-indexes views by match id, replacing earlier copies.
func (x *MatchIndex) IndexMatches(ctx context.Context, views []models.MatchView) (err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchIndex.IndexMatches")
	defer func() { observability.EndSpan(span, err) }()

	if len(views) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for _, v := range views {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": x.index, "_id": v.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(documentFromView(v)); err != nil {
			return err
		}
	}

	res, err := esapi.BulkRequest{Body: &body}.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("bulk index %d matches: %w", len(views), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index failed: %s", res.String())
	}

	var r struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if r.Errors {
		return fmt.Errorf("bulk index reported item failures")
	}
	return nil
}

// UpdateStatus mirrors a lifecycle transition into the index.
func (x *MatchIndex) UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) (err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchIndex.UpdateStatus")
	defer func() { observability.EndSpan(span, err) }()

	body, _ := json.Marshal(map[string]interface{}{
		"doc": map[string]interface{}{"status": string(status)},
	})

	res, err := esapi.UpdateRequest{
		Index:      x.index,
		DocumentID: matchID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, x.client)
	if err != nil {
		return fmt.Errorf("update match %s: %w", matchID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("update match %s: %s", matchID, res.String())
	}
	return nil
}

// Search runs a relevance query over names and reasons.
func (x *MatchIndex) Search(ctx context.Context, q SearchQuery) (result *SearchResult, err error) {
	ctx, span := observability.StartSpan(ctx, "store.MatchIndex.Search")
	defer func() { observability.EndSpan(span, err) }()

	size := q.Size
	if size < 1 {
		size = 20
	}
	if x.maxSize > 0 && size > x.maxSize {
		size = x.maxSize
	}
	from := q.From
	if from < 0 {
		from = 0
	}

	body, _ := json.Marshal(buildSearchQuery(q))

	start := time.Now()
	res, err := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}.Do(ctx, x.client)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrSearchTimeout
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source MatchDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result = &SearchResult{
		Matches:   make([]MatchDocument, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, h := range r.Hits.Hits {
		result.Matches = append(result.Matches, h.Source)
	}
	return result, nil
}

func buildSearchQuery(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if strings.TrimSpace(q.Text) != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": searchFields,
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if q.Status != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": string(q.Status)},
		})
	}
	if q.MinScore > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"score": map[string]interface{}{"gte": q.MinScore}},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"score": "desc"},
			map[string]interface{}{"id": "asc"},
		},
	}
}
