// Package search keeps an elasticsearch relevance index of opportunities.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"funding-tracker/internal/common/config"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/metrics"
	"funding-tracker/internal/models"
	"funding-tracker/internal/query"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sony/gobreaker"
)

var (
	// ErrUnavailable means the breaker is rejecting calls.
	ErrUnavailable = errors.New("search index unavailable")
	ErrFailed      = errors.New("search request failed")
)

const maxResults = 100

// Index wraps the opportunity index behind a circuit breaker.
type Index struct {
	client  *elasticsearch.Client
	name    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  logger.Logger
}

func NewIndex(client *elasticsearch.Client, cfg config.SearchConfig, log logger.Logger) *Index {
	log = log.WithFields(map[string]interface{}{"component": "search-index", "index": cfg.Index})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "elasticsearch",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    config.GetDuration(cfg.Breaker.Interval),
		Timeout:     config.GetDuration(cfg.Breaker.Timeout),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &Index{
		client:  client,
		name:    cfg.Index,
		timeout: config.GetDuration(cfg.Timeout),
		breaker: breaker,
		logger:  log,
	}
}

// do runs fn through the breaker with the per-call timeout and records the outcome.
func (ix *Index) do(ctx context.Context, fn func(ctx context.Context) (*esapi.Response, error), accept ...int) error {
	_, err := ix.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, ix.timeout)
		defer cancel()

		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.IsError() && !accepted(res.StatusCode, accept) {
			body, _ := io.ReadAll(res.Body)
			return nil, fmt.Errorf("elasticsearch returned %s: %s", res.Status(), body)
		}
		return nil, nil
	})

	switch {
	case err == nil:
		metrics.SearchRequests.WithLabelValues("ok").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.SearchRequests.WithLabelValues("rejected").Inc()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		metrics.SearchRequests.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
}

func accepted(status int, accept []int) bool {
	for _, s := range accept {
		if s == status {
			return true
		}
	}
	return false
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	var exists bool
	err := ix.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		res, err := ix.client.Indices.Exists([]string{ix.name}, ix.client.Indices.Exists.WithContext(ctx))
		if err == nil {
			exists = res.StatusCode == http.StatusOK
		}
		return res, err
	}, http.StatusNotFound)
	if err != nil || exists {
		return err
	}

	ix.logger.Info("creating search index", nil)
	return ix.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return ix.client.Indices.Create(ix.name,
			ix.client.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
			ix.client.Indices.Create.WithContext(ctx),
		)
	})
}

// Upsert indexes o under its id.
func (ix *Index) Upsert(ctx context.Context, o *models.FundingOpportunity) error {
	body, err := json.Marshal(NewDocument(o))
	if err != nil {
		return fmt.Errorf("encode search document: %w", err)
	}

	return ix.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return ix.client.Index(ix.name, bytes.NewReader(body),
			ix.client.Index.WithDocumentID(strconv.FormatInt(o.ID, 10)),
			ix.client.Index.WithContext(ctx),
		)
	})
}

// Delete removes the document of id. A missing document is not an error.
func (ix *Index) Delete(ctx context.Context, id int64) error {
	return ix.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		return ix.client.Delete(ix.name, strconv.FormatInt(id, 10), ix.client.Delete.WithContext(ctx))
	}, http.StatusNotFound)
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search returns the ids of the best matches for text, most relevant first.
func (ix *Index) Search(ctx context.Context, text string, f query.Filters, size int) ([]int64, error) {
	if size <= 0 || size > maxResults {
		size = maxResults
	}
	body, err := json.Marshal(BuildSearchQuery(text, f))
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	var parsed searchResponse
	err = ix.do(ctx, func(ctx context.Context) (*esapi.Response, error) {
		res, err := ix.client.Search(
			ix.client.Search.WithContext(ctx),
			ix.client.Search.WithIndex(ix.name),
			ix.client.Search.WithBody(bytes.NewReader(body)),
			ix.client.Search.WithSize(size),
		)
		if err != nil || res.IsError() {
			return res, err
		}
		// decode here so the body is read before do closes it
		if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
			res.Body.Close()
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			ix.logger.Warn("skipping hit with non-numeric id", map[string]interface{}{"id": h.ID})
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
