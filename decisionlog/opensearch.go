package decisionlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/tidwall/gjson"
)

// decisionIndexMapping types the filterable fields as keywords so term
// filters match exactly regardless of dynamic mapping defaults.
const decisionIndexMapping = `{
	"mappings": {
		"properties": {
			"decision":   {"type": "keyword"},
			"requested":  {"type": "keyword"},
			"missing":    {"type": "keyword"},
			"candidates": {"type": "keyword"},
			"allowed":    {"type": "boolean"},
			"subject":    {"type": "keyword"},
			"created_at": {"type": "date"}
		}
	}
}`

// OpenSearchStore persists decision events as documents in an OpenSearch
// index, one document per decision keyed by event id.
type OpenSearchStore struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearchStore creates a store writing into the given index. An empty
// index name falls back to "authz-decisions".
func NewOpenSearchStore(client *opensearch.Client, index string) *OpenSearchStore {
	if client == nil {
		panic("decisionlog: opensearch client cannot be nil")
	}
	if index == "" {
		index = "authz-decisions"
	}
	return &OpenSearchStore{
		client: client,
		index:  index,
	}
}

// EnsureIndex creates the index with the decision mapping when it does not
// exist yet. Safe to call on every startup.
func (s *OpenSearchStore) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	created, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(decisionIndexMapping)),
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	defer created.Body.Close()
	if created.IsError() {
		return fmt.Errorf("%w: create index %s: %s", ErrStoreFailed, s.index, created.String())
	}
	return nil
}

// Store implements Store.
func (s *OpenSearchStore) Store(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(event.ID),
	)
	if err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrStoreFailed, res.String())
	}
	return nil
}

// Query implements Store. Events come back oldest first.
func (s *OpenSearchStore) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	query, err := json.Marshal(searchBody(criteria))
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(query)),
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	hits := gjson.GetBytes(raw, "hits.hits.#._source").Array()
	events := make([]Event, 0, len(hits))
	for _, hit := range hits {
		var event Event
		if err := json.Unmarshal([]byte(hit.Raw), &event); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		events = append(events, event)
	}
	// The search sorts newest first so the size cap keeps the most recent
	// events; callers expect them oldest first.
	slices.Reverse(events)
	return events, nil
}

func searchBody(criteria Criteria) map[string]any {
	var filters []map[string]any
	if criteria.Decision != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"decision": criteria.Decision}})
	}
	if criteria.Allowed != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"allowed": *criteria.Allowed}})
	}
	if criteria.Subject != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"subject": criteria.Subject}})
	}
	if !criteria.Since.IsZero() {
		filters = append(filters, map[string]any{"range": map[string]any{
			"created_at": map[string]any{"gte": criteria.Since.Format(time.RFC3339Nano)},
		}})
	}

	size := criteria.Limit
	if size <= 0 {
		size = 1000
	}
	body := map[string]any{
		"size": size,
		"sort": []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
	}
	if len(filters) > 0 {
		body["query"] = map[string]any{"bool": map[string]any{"filter": filters}}
	} else {
		body["query"] = map[string]any{"match_all": map[string]any{}}
	}
	return body
}
