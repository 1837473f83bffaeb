package profilestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

// maxPoolSize caps one search request; it matches the default
// index.max_result_window.
const maxPoolSize = 10000

// SearchStore reads profiles from an Elasticsearch index whose documents are
// Profile JSON keyed by profile id.
type SearchStore struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchStore(es *elasticsearch.Client, index string, log logger.Logger) *SearchStore {
	return &SearchStore{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"store": "elasticsearch", "index": index}),
	}
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source *models.Profile `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *SearchStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	res, err := s.es.Get(s.index, id, s.es.Get.WithContext(ctx))
	if err != nil {
		return nil, storeError("get profile "+id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", matching.ErrProfileNotFound, id)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: get profile %s: %s", matching.ErrStoreUnavailable, id, res.Status())
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode profile %s: %v", matching.ErrStoreUnavailable, id, err)
	}
	if !doc.Found || doc.Source == nil {
		return nil, fmt.Errorf("%w: %s", matching.ErrProfileNotFound, id)
	}
	if doc.Source.ID == "" {
		doc.Source.ID = id
	}
	return doc.Source, nil
}

func (s *SearchStore) ListByRole(ctx context.Context, role models.Role) ([]*models.Profile, error) {
	hits, err := s.search(ctx, role, true)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Profile, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		var p models.Profile
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			s.logger.Warn("skipping undecodable profile document", map[string]interface{}{
				"candidateId": hit.ID,
				"error":       err.Error(),
			})
			continue
		}
		if p.ID == "" {
			p.ID = hit.ID
		}
		out = append(out, &p)
	}
	return out, nil
}

func (s *SearchStore) ListIDs(ctx context.Context, role models.Role) ([]string, error) {
	hits, err := s.search(ctx, role, false)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(hits.Hits.Hits))
	for i, hit := range hits.Hits.Hits {
		ids[i] = hit.ID
	}
	return ids, nil
}

func (s *SearchStore) search(ctx context.Context, role models.Role, withSource bool) (*searchResponse, error) {
	field := "isMentee"
	if role.IsMentor() {
		field = "isMentor"
	}
	body := map[string]interface{}{
		"size":             maxPoolSize,
		"track_total_hits": true,
		"_source":          withSource,
		"query":            map[string]interface{}{"term": map[string]interface{}{field: true}},
		"sort":             []interface{}{map[string]interface{}{"id": "asc"}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, storeError("search "+string(role)+" profiles", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: search %s profiles: %s", matching.ErrStoreUnavailable, role, res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", matching.ErrStoreUnavailable, err)
	}
	if total, got := out.Hits.Total.Value, len(out.Hits.Hits); total > got {
		s.logger.Warn("candidate pool truncated", map[string]interface{}{
			"role":     string(role),
			"total":    total,
			"returned": got,
		})
	}
	return &out, nil
}

// IndexProfile writes p and refreshes so it is immediately searchable.
func (s *SearchStore) IndexProfile(ctx context.Context, p *models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return storeError("index profile "+p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: index profile %s: %s", matching.ErrStoreUnavailable, p.ID, res.Status())
	}
	return nil
}
