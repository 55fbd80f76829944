package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/plume-blog/plume/internal/posts"
	"github.com/plume-blog/plume/internal/telemetry/tracing"
)

const postsIndex = "posts"

const postsIndexMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "integer"},
			"title": {"type": "text"},
			"content": {"type": "text"},
			"excerpt": {"type": "text"},
			"tags": {"type": "keyword"},
			"status": {"type": "keyword"},
			"category": {"type": "keyword"},
			"created_at": {"type": "date"}
		}
	}
}`

// Searcher keeps the posts full-text index in Elasticsearch in sync and
// serves search queries against it.
type Searcher struct {
	client *elasticsearch.Client
}

func NewSearcher(addr string) (*Searcher, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Searcher{client: client}, nil
}

// EnsureIndex creates the posts index, an already existing index is fine.
func (s *Searcher) EnsureIndex(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "searcher.ensureIndex")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req := esapi.IndicesCreateRequest{
		Index: postsIndex,
		Body:  strings.NewReader(postsIndexMapping),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create posts index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("create posts index: %s", res.String())
	}
	return nil
}

type postDocument struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Searcher) Index(ctx context.Context, post posts.Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "searcher.index")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc := postDocument{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Tags:      post.Tags,
		Status:    post.Status,
		Category:  post.Category.Slug,
		CreatedAt: post.CreatedAt,
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal post document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      postsIndex,
		DocumentID: strconv.Itoa(post.ID),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index post %d: %w", post.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index post %d: %s", post.ID, res.String())
	}

	log.Tracef("post %d indexed", post.ID)
	return nil
}

func (s *Searcher) Remove(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "searcher.remove")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req := esapi.DeleteRequest{
		Index:      postsIndex,
		DocumentID: strconv.Itoa(id),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("remove post %d from index: %w", id, err)
	}
	defer res.Body.Close()

	// a missing document is already removed
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove post %d from index: %s", id, res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source struct {
				ID int `json:"id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi-match query over title and content, filtered by
// status and category when given, and returns matching post ids ordered
// by relevance, plus the total hit count.
func (s *Searcher) Search(
	ctx context.Context,
	query, status, category string,
	page, size int,
) (_ []int, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "searcher.search")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if page < 1 {
		page = 1
	}

	filters := make([]map[string]interface{}, 0, 2)
	if status != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"status": status},
		})
	}
	if category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	}

	searchQuery := map[string]interface{}{
		"from": (page - 1) * size,
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title", "content"},
					},
				},
				"filter": filters,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery); err != nil {
		return nil, -1, fmt.Errorf("encode search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(postsIndex),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, -1, fmt.Errorf("search posts: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, -1, fmt.Errorf("search posts: %s", res.String())
	}

	var searchRes searchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		return nil, -1, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int, 0, len(searchRes.Hits.Hits))
	for _, hit := range searchRes.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, searchRes.Hits.Total.Value, nil
}
