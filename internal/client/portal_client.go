// Package client implements the session package's consumed interfaces
// against the portal's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/session"
)

// PortalClient talks to the assessment portal. It satisfies
// session.QuestionProvider, session.SubmissionSink and session.ResultLookup.
type PortalClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *PortalClient {
	return &PortalClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *PortalClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling portal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp dto.ErrorResponse
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return resp.StatusCode, fmt.Errorf("portal returned %s: %s", resp.Status, errResp.Message)
		}
		return resp.StatusCode, fmt.Errorf("portal returned %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding portal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Questions draws a question set for one session.
func (c *PortalClient) Questions(ctx context.Context, subject string, difficulty session.Difficulty, count int) ([]session.Question, error) {
	params := url.Values{}
	params.Set("subject", subject)
	params.Set("diff", string(difficulty))
	params.Set("count", fmt.Sprintf("%d", count))

	var dtos []dto.QuestionDTO
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/assessment/questions?"+params.Encode(), nil, &dtos); err != nil {
		return nil, err
	}

	questions := make([]session.Question, len(dtos))
	for i, q := range dtos {
		questions[i] = session.Question{
			ID:              q.ID,
			Subject:         q.Subject,
			DifficultyLevel: q.DifficultyLevel,
			Text:            q.Question,
			Options:         q.Options,
			CorrectAnswer:   q.CorrectAnswer,
		}
		if q.Explanation != nil {
			questions[i].Explanation = *q.Explanation
		}
	}
	return questions, nil
}

// Submit persists a completed attempt.
func (c *PortalClient) Submit(ctx context.Context, attempt session.Attempt) (*session.Result, error) {
	req := dto.SubmitAssessmentDTO{
		Subject:        attempt.Subject,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Answers:        attempt.Answers,
	}

	var summary dto.ResultSummaryDTO
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/assessment/submit", req, &summary); err != nil {
		return nil, err
	}

	return &session.Result{
		ID:             summary.ID,
		Reference:      summary.Reference,
		Subject:        summary.Subject,
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		Accuracy:       session.Accuracy(summary.Score, summary.TotalQuestions),
		CreatedAt:      summary.CreatedAt,
	}, nil
}

// Result fetches review detail for a persisted result. 404 and 403 map to
// session.ErrResultNotFound; everything else is a transport error.
func (c *PortalClient) Result(ctx context.Context, id uint) (*session.ResultDetail, error) {
	var detail dto.ResultDetailDTO
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/assessment/result/%d", id), nil, &detail)
	if status == http.StatusNotFound || status == http.StatusForbidden {
		return nil, session.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}

	out := &session.ResultDetail{
		Result: session.Result{
			ID:             detail.ID,
			Reference:      detail.Reference,
			Subject:        detail.Subject,
			Score:          detail.Score,
			TotalQuestions: detail.TotalQuestions,
			Accuracy:       session.Accuracy(detail.Score, detail.TotalQuestions),
			CreatedAt:      detail.CreatedAt,
		},
	}
	for _, q := range detail.Questions {
		out.Questions = append(out.Questions, session.ReviewQuestion{
			ID:             q.ID,
			Text:           q.Question,
			Options:        q.Options,
			SelectedAnswer: q.SelectedAnswer,
			CorrectAnswer:  q.CorrectAnswer,
			Explanation:    q.Explanation,
		})
	}
	return out, nil
}

// Login exchanges credentials for the bearer token used by Submit and
// Result. The token is stored on the client.
func (c *PortalClient) Login(ctx context.Context, email, password string) error {
	req := dto.LoginRequest{Email: email, Password: password}
	var token dto.TokenResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/login", req, &token); err != nil {
		return err
	}
	c.token = token.AccessToken
	return nil
}

// Token returns the current bearer token, empty when anonymous.
func (c *PortalClient) Token() string {
	return c.token
}
