package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Published bool   `json:"published"`
}

type Comment struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// RegisterUser creates a new account and logs it in, returning the access token
func (c *APIClient) RegisterUser(baseName, password string) (*User, string, error) {
	suffix := time.Now().UnixNano() % 100000
	username := fmt.Sprintf("%s_%d", baseName, suffix)
	email := fmt.Sprintf("%s@example.com", username)

	body := map[string]string{
		"name":     baseName,
		"username": username,
		"email":    email,
		"password": password,
	}

	var user User
	if _, err := c.do(http.MethodPost, "/users/register", body, "", http.StatusCreated, &user); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := c.Login(email, password)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login returns the access token set in the accessToken cookie
func (c *APIClient) Login(email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := c.do(http.MethodPost, "/users/login", body, "", http.StatusOK, nil)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "accessToken" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("login: no accessToken cookie in response")
}

// CreatePost creates a post owned by the token's user
func (c *APIClient) CreatePost(token, title, blog string, published bool) (*Post, error) {
	body := map[string]interface{}{
		"title":     title,
		"blog":      blog,
		"published": published,
	}

	var post Post
	if _, err := c.do(http.MethodPost, "/posts", body, token, http.StatusCreated, &post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// CreateComment adds a comment to a post
func (c *APIClient) CreateComment(token, postID, text string) (*Comment, error) {
	body := map[string]string{
		"postId": postID,
		"text":   text,
	}

	var comment Comment
	if _, err := c.do(http.MethodPost, "/comments", body, token, http.StatusCreated, &comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// ListPosts fetches all published posts
func (c *APIClient) ListPosts() ([]Post, error) {
	var posts []Post
	if _, err := c.do(http.MethodGet, "/posts", nil, "", http.StatusOK, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// HTTP helpers

func (c *APIClient) do(method, path string, body interface{}, token string, wantStatus int, out interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}

	return resp, nil
}
