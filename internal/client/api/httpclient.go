package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aprilian/storymap/internal/client/models"
	"github.com/aprilian/storymap/internal/common"
)

// APIError is a non-2xx response from the story API. Message carries the
// body's message field when the API supplied one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is lets callers match authorization failures with
// errors.Is(err, common.ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	return target == common.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// HTTPClient talks to the story API over plain HTTP. It never retries;
// every failure is surfaced to the caller with a human-readable message.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs a client for the API at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the common wrapper of every API response body.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type listStoriesResponse struct {
	envelope
	ListStory []models.Story `json:"listStory"`
}

type storyResponse struct {
	envelope
	Story models.Story `json:"story"`
}

type loginResponse struct {
	envelope
	LoginResult LoginResult `json:"loginResult"`
}

func (c *HTTPClient) ListStories(ctx context.Context, token string) ([]models.Story, error) {
	var resp listStoriesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/stories", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ListStory, nil
}

func (c *HTTPClient) GetStory(ctx context.Context, token, id string) (*models.Story, error) {
	var resp storyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/stories/"+id, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Story, nil
}

func (c *HTTPClient) AddStory(ctx context.Context, token string, story NewStory) error {
	return c.doMultipart(ctx, "/stories", token, story)
}

func (c *HTTPClient) AddStoryGuest(ctx context.Context, story NewStory) error {
	return c.doMultipart(ctx, "/stories/guest", "", story)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", "", payload, &resp); err != nil {
		return nil, err
	}
	if resp.LoginResult.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &resp.LoginResult, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/register", "", payload, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, token, out)
}

func (c *HTTPClient) doMultipart(ctx context.Context, path, token string, story NewStory) error {
	body, contentType, err := encodeStory(story)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, token, nil)
}

func (c *HTTPClient) do(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("story api unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env envelope
		if jerr := json.Unmarshal(data, &env); jerr == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// encodeStory builds the multipart body with fields description, photo, and
// the optional lat/lon pair.
func encodeStory(story NewStory) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("description", story.Description); err != nil {
		return nil, "", err
	}

	fw, err := w.CreateFormFile("photo", story.PhotoName)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(story.Photo); err != nil {
		return nil, "", err
	}

	if story.Lat != nil && story.Lon != nil {
		if err := w.WriteField("lat", strconv.FormatFloat(*story.Lat, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
		if err := w.WriteField("lon", strconv.FormatFloat(*story.Lon, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
