package todoapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

// ErrSessionExpired is returned for any 401 response. Callers must not retry;
// the stored token has already been discarded by the time they see it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response with the message the server put in its body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type errorBody struct {
	Detail string `json:"detail"`
	Err    string `json:"error"`
}

// Client is the single point of HTTP communication with the backend. The
// bearer token is read at request-build time, so a token swap between calls is
// picked up by the next request; headers already attached to in-flight
// requests are unaffected.
type Client struct {
	baseUrl    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string

	onUnauthorized func()
}

func NewClient(baseUrl string) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken replaces the bearer token used on all subsequent requests. An empty
// string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// OnUnauthorized registers a callback invoked once per 401 response, after the
// client has dropped its own token. The session store wires this to its Clear.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// do issues exactly one request. No retries, no caching, no deduplication.
func (c *Client) do(method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewBuffer(buf)
	}

	req, err := http.NewRequest(method, c.baseUrl+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.SetToken("")
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrSessionExpired
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: "Request failed"}
		}
		var eb errorBody
		if err := json.Unmarshal(respBody, &eb); err == nil {
			if eb.Detail != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: eb.Detail}
			}
			if eb.Err != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: eb.Err}
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "Request failed"}
	}

	if out == nil {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func encodeFilters(f *models.TaskFilters) string {
	if f == nil {
		return ""
	}
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Priority != "" {
		params.Set("priority", string(f.Priority))
	}
	if f.Tag != "" {
		params.Set("tag", f.Tag)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Overdue {
		params.Set("overdue", "true")
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	if f.Order != "" {
		params.Set("order", f.Order)
	}
	return params.Encode()
}

func (c *Client) GetTasks(userID string, filters *models.TaskFilters) ([]models.Task, error) {
	path := "/api/" + userID + "/tasks"
	if query := encodeFilters(filters); query != "" {
		path += "?" + query
	}
	var tasks []models.Task
	if err := c.do(http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(userID string, data models.TaskCreate) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPost, "/api/"+userID+"/tasks", data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTask(userID string, taskID int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodGet, taskPath(userID, taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(userID string, taskID int64, data models.TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPut, taskPath(userID, taskID), data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(userID string, taskID int64) error {
	return c.do(http.MethodDelete, taskPath(userID, taskID), nil, nil)
}

func (c *Client) ToggleComplete(userID string, taskID int64) (*models.Task, error) {
	var task models.Task
	if err := c.do(http.MethodPatch, taskPath(userID, taskID)+"/complete", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) GetTags(userID string) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(http.MethodGet, "/api/"+userID+"/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) CreateTag(userID string, data models.TagCreate) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(http.MethodPost, "/api/"+userID+"/tags", data, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) UpdateTag(userID string, tagID int64, data models.TagUpdate) (*models.Tag, error) {
	var tag models.Tag
	path := "/api/" + userID + "/tags/" + strconv.FormatInt(tagID, 10)
	if err := c.do(http.MethodPut, path, data, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) DeleteTag(userID string, tagID int64) error {
	path := "/api/" + userID + "/tags/" + strconv.FormatInt(tagID, 10)
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *Client) AddTagsToTask(userID string, taskID int64, tagIDs []int64) error {
	body := map[string][]int64{"tag_ids": tagIDs}
	return c.do(http.MethodPost, taskPath(userID, taskID)+"/tags", body, nil)
}

func (c *Client) RemoveTagFromTask(userID string, taskID, tagID int64) error {
	path := taskPath(userID, taskID) + "/tags/" + strconv.FormatInt(tagID, 10)
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *Client) SendMessage(message string, conversationID int64) (*models.ChatResponse, error) {
	req := models.ChatRequest{Message: message}
	if conversationID != 0 {
		req.ConversationID = &conversationID
	}
	var resp models.ChatResponse
	if err := c.do(http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetConversations() ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := c.do(http.MethodGet, "/api/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (c *Client) GetMessages(conversationID int64) ([]models.Message, error) {
	var messages []models.Message
	path := "/api/conversations/" + strconv.FormatInt(conversationID, 10) + "/messages"
	if err := c.do(http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DemoLogin exchanges an email for a backend-signed session token.
func (c *Client) DemoLogin(email string) (*models.AuthSession, error) {
	var resp models.LoginResponse
	if err := c.do(http.MethodPost, "/auth/demo-login", models.LoginRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &models.AuthSession{
		User:  models.User{ID: resp.UserID, Email: resp.Email},
		Token: resp.Token,
	}, nil
}

func taskPath(userID string, taskID int64) string {
	return "/api/" + userID + "/tasks/" + strconv.FormatInt(taskID, 10)
}
