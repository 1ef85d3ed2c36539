package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sponsormatch-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
}

func newTestIndex(t *testing.T, status int, response string, maxSize int) (*MatchIndex, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewMatchIndex(client, "matches", maxSize), &requests
}

func TestMatchIndex_IndexMatches(t *testing.T) {
	index, requests := newTestIndex(t, 200, `{"took":3,"errors":false,"items":[]}`, 100)

	views := []models.MatchView{{
		Match:     models.Match{ID: "m1", BrandID: "b1", OrganizerID: "o1", Score: 80, Status: models.MatchPending, CreatedAt: time.Now()},
		BrandName: "Acme", OrganizerName: "Org One", EventName: "LAN Party",
	}}
	require.NoError(t, index.IndexMatches(context.Background(), views))

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/_bulk", req.path)
	lines := strings.Split(strings.TrimSpace(req.body), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"_id":"m1"`)
	assert.Contains(t, lines[1], `"eventName":"LAN Party"`)
}

func TestMatchIndex_IndexMatches_ItemErrors(t *testing.T) {
	index, _ := newTestIndex(t, 200, `{"took":3,"errors":true,"items":[]}`, 100)

	err := index.IndexMatches(context.Background(), []models.MatchView{{Match: models.Match{ID: "m1"}}})
	assert.Error(t, err)
}

func TestMatchIndex_IndexMatches_EmptyIsNoop(t *testing.T) {
	index, requests := newTestIndex(t, 500, `{}`, 100)

	require.NoError(t, index.IndexMatches(context.Background(), nil))
	assert.Empty(t, *requests)
}

func TestMatchIndex_UpdateStatus(t *testing.T) {
	index, requests := newTestIndex(t, 200, `{"result":"updated"}`, 100)

	require.NoError(t, index.UpdateStatus(context.Background(), "m1", models.MatchAccepted))
	req := (*requests)[0]
	assert.Equal(t, "/matches/_update/m1", req.path)
	assert.JSONEq(t, `{"doc":{"status":"accepted"}}`, req.body)
}

func TestMatchIndex_UpdateStatus_Missing(t *testing.T) {
	index, _ := newTestIndex(t, 404, `{"error":{"type":"document_missing_exception"}}`, 100)

	assert.Error(t, index.UpdateStatus(context.Background(), "m1", models.MatchAccepted))
}

func TestMatchIndex_Search(t *testing.T) {
	response := `{
		"took": 2,
		"hits": {
			"total": {"value": 1},
			"max_score": 1.7,
			"hits": [{"_source": {"id": "m1", "brandName": "Acme", "score": 80, "status": "pending"}}]
		}
	}`
	index, requests := newTestIndex(t, 200, response, 50)

	result, err := index.Search(context.Background(), SearchQuery{
		Text:     "acme",
		Status:   models.MatchPending,
		MinScore: 60,
		Size:     500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalHits)
	assert.Equal(t, 1.7, result.MaxScore)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Acme", result.Matches[0].BrandName)

	req := (*requests)[0]
	assert.Contains(t, req.query, "size=50")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.body), &body))
	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["filter"], 2)
	assert.Contains(t, req.body, `"multi_match"`)
}

func TestMatchIndex_Search_ErrorResponse(t *testing.T) {
	index, _ := newTestIndex(t, 400, `{"error":{"type":"parsing_exception"}}`, 50)

	_, err := index.Search(context.Background(), SearchQuery{})
	assert.Error(t, err)
}

func TestBuildSearchQuery_MatchAllWithoutText(t *testing.T) {
	q := buildSearchQuery(SearchQuery{})
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
	assert.NotContains(t, boolQuery, "filter")
}
