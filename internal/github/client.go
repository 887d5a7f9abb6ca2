// Package github is the provider capability: OAuth code exchange plus the
// REST operations the extension relies on (user profile, repositories,
// contents).
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const defaultAPIBase = "https://api.github.com"

// requestTimeout bounds every provider call so a slow upstream cannot pin
// request-handling capacity. Timeout expiry surfaces as an upstream error.
const requestTimeout = 15 * time.Second

// ErrFileNotFound is returned by GetFileSHA only for an HTTP 404 response.
// Any other failure is a genuine upstream error and must not be treated as
// "file absent".
var ErrFileNotFound = errors.New("github: file not found")

// Scopes requested during authorization.
var Scopes = []string{"repo", "read:user", "user:email"}

// User is the subset of the GitHub profile this service needs.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// Repo describes a repository in list and create responses.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	URL      string `json:"html_url"`
	Private  bool   `json:"private"`
}

// APIError is a non-2xx response from the REST API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client wraps the GitHub OAuth and REST APIs. Base URLs are settable so
// tests can point it at a local server.
type Client struct {
	httpClient *http.Client
	apiBase    string
	oauth      *oauth2.Config
}

// New builds a client for the given OAuth app credentials.
func New(clientID, clientSecret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiBase:    defaultAPIBase,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       Scopes,
			Endpoint:     githuboauth.Endpoint,
		},
	}
}

// SetBaseURL points REST calls at a different host.
func (c *Client) SetBaseURL(apiBase string) {
	c.apiBase = strings.TrimRight(apiBase, "/")
}

// SetTokenURL points the OAuth exchange at a different token endpoint.
func (c *Client) SetTokenURL(tokenURL string) {
	c.oauth.Endpoint = oauth2.Endpoint{TokenURL: tokenURL}
}

// ExchangeCode trades an OAuth authorization code for an access token and
// the scopes the user actually granted. A nominally successful response
// without an access token is an error.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, []string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("exchange code: %w", err)
	}
	if token.AccessToken == "" {
		return "", nil, errors.New("exchange code: no access token in response")
	}
	var scopes []string
	if raw, ok := token.Extra("scope").(string); ok && raw != "" {
		scopes = strings.Split(raw, ",")
	}
	return token.AccessToken, scopes, nil
}

// FetchUser loads the authenticated user's profile.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return User{}, err
	}
	if user.ID == 0 || user.Login == "" {
		return User{}, errors.New("github: user response missing id or login")
	}
	return user, nil
}

// ListRepos returns the authenticated user's repositories, most recently
// updated first.
func (c *Client) ListRepos(ctx context.Context, accessToken string) ([]Repo, error) {
	var repos []Repo
	err := c.doJSON(ctx, http.MethodGet, "/user/repos?per_page=100&sort=updated", accessToken, nil, &repos)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// CreateRepo creates a repository for the authenticated user, initialized
// with a README so the first solution push has a branch to commit onto.
func (c *Client) CreateRepo(ctx context.Context, accessToken, name, description string, private bool) (Repo, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"private":     private,
		"auto_init":   true,
	}
	var repo Repo
	if err := c.doJSON(ctx, http.MethodPost, "/user/repos", accessToken, body, &repo); err != nil {
		return Repo{}, err
	}
	return repo, nil
}

// GetFileSHA returns the blob SHA of path in owner/repo, or ErrFileNotFound
// when the API answers 404. Other failures propagate as-is so a transient
// read error is never conflated with an absent file.
func (c *Client) GetFileSHA(ctx context.Context, accessToken, owner, repo, path string) (string, error) {
	var out struct {
		SHA string `json:"sha"`
	}
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), accessToken, nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return "", ErrFileNotFound
	}
	if err != nil {
		return "", err
	}
	return out.SHA, nil
}

// PutFile creates or updates a file via the contents API and returns the
// commit URL. Pass the current blob SHA to update; leave it empty to
// create.
func (c *Client) PutFile(ctx context.Context, accessToken, owner, repo, path, message, content, sha string) (string, error) {
	body := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}
	if sha != "" {
		body["sha"] = sha
	}
	var out struct {
		Commit struct {
			HTMLURL string `json:"html_url"`
		} `json:"commit"`
	}
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), accessToken, body, &out)
	if err != nil {
		return "", err
	}
	return out.Commit.HTMLURL, nil
}

// doJSON performs one REST call. The access token travels only in the
// Authorization header and never appears in returned errors.
func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode %s %s response: %w", method, path, err)
	}
	return nil
}
