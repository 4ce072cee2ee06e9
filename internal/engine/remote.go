package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoToken is returned by remote writes attempted without credentials.
// Callers normally avoid this by checking the token up front.
var ErrNoToken = errors.New("engine: no auth token")

// RemoteClient speaks the Engolo backend's REST API. It implements both
// ProgressStore and StatisticsStore.
//
// Older deployments of the API returned records wrapped in an
// {"attributes": {...}} envelope while newer ones return them flat; the
// client normalizes both shapes here at the boundary so nothing deeper in the
// engine ever branches on payload shape.
type RemoteClient struct {
	BaseURL string
	Token   TokenSource
	HTTP    *http.Client
}

func NewRemoteClient(baseURL string, token TokenSource) *RemoteClient {
	if token == nil {
		token = NoToken
	}
	return &RemoteClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the server's uniform response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// normalizeRecord unmarshals a possibly attributes-wrapped object into v.
func normalizeRecord(raw json.RawMessage, v interface{}) error {
	var wrapped struct {
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Attributes) > 0 {
		return json.Unmarshal(wrapped.Attributes, v)
	}
	return json.Unmarshal(raw, v)
}

// decodeList accepts either a bare JSON array or a {"list": [...]} page
// wrapper and returns the normalized items.
func decodeList(data json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var page struct {
		List []json.RawMessage `json:"list"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, err
	}
	return page.List, nil
}

func (c *RemoteClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("engine: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *RemoteClient) FetchCompleted(ctx context.Context, userID uint, progressType string) ([]ProgressRecord, error) {
	query := url.Values{}
	query.Set("userId", fmt.Sprint(userID))
	if progressType != "" {
		query.Set("type", progressType)
	}

	data, err := c.do(ctx, http.MethodGet, "/api/progress", query, nil)
	if err != nil {
		return nil, err
	}

	items, err := decodeList(data)
	if err != nil {
		return nil, err
	}

	records := make([]ProgressRecord, 0, len(items))
	for _, item := range items {
		var rec ProgressRecord
		if err := normalizeRecord(item, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *RemoteClient) SaveCompletion(ctx context.Context, rec ProgressRecord) error {
	if c.Token() == "" {
		return ErrNoToken
	}
	_, err := c.do(ctx, http.MethodPost, "/api/progress", nil, rec)
	return err
}

func (c *RemoteClient) SaveExerciseStatistic(ctx context.Context, s ExerciseStatistic) error {
	if c.Token() == "" {
		return ErrNoToken
	}
	_, err := c.do(ctx, http.MethodPost, "/api/exercise-statistics", nil, s)
	return err
}

func (c *RemoteClient) SaveQuizStatistic(ctx context.Context, s QuizStatistic) error {
	if c.Token() == "" {
		return ErrNoToken
	}
	_, err := c.do(ctx, http.MethodPost, "/api/quiz-statistics", nil, s)
	return err
}

func (c *RemoteClient) HasQuizStatistic(ctx context.Context, userID uint, quizSetID string) (bool, error) {
	query := url.Values{}
	query.Set("userId", fmt.Sprint(userID))
	query.Set("quizSetId", quizSetID)

	data, err := c.do(ctx, http.MethodGet, "/api/quiz-statistics", query, nil)
	if err != nil {
		return false, err
	}

	items, err := decodeList(data)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}
