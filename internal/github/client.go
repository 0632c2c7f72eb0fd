// Package github wraps the pieces of the GitHub REST API the agent needs:
// pull request diffs, documentation files, and issue comments.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// ErrNotFound is returned when the requested resource does not exist,
// e.g. a repository without documentation.
var ErrNotFound = errors.New("not found")

// Client talks to the GitHub REST API.
type Client struct {
	gh *gogithub.Client
}

// NewClient returns an authenticated client. token is a PAT or installation
// token; when empty the client is unauthenticated (low rate limits).
func NewClient(ctx context.Context, token string) *Client {
	var hc *http.Client
	if token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	return &Client{gh: gogithub.NewClient(hc)}
}

// NewClientWithBase points the client at baseURL, e.g. an httptest server.
func NewClientWithBase(hc *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	c := gogithub.NewClient(hc)
	c.BaseURL = u
	return &Client{gh: c}, nil
}

// GetDiff fetches the unified diff for a pull request.
func (c *Client) GetDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, resp, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, gogithub.RawOptions{Type: gogithub.Diff})
	if err != nil {
		if notFound(resp) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get pull request diff: %w", err)
	}
	return diff, nil
}

// GetDoc fetches the repository documentation file. An empty path means the
// repository README, whatever it is named; otherwise path is fetched from the
// default branch.
func (c *Client) GetDoc(ctx context.Context, owner, repo, path string) (string, error) {
	if path == "" {
		readme, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
		if err != nil {
			if notFound(resp) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("get readme: %w", err)
		}
		content, err := readme.GetContent()
		if err != nil {
			return "", fmt.Errorf("decode readme: %w", err)
		}
		return content, nil
	}

	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if notFound(resp) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get contents %s: %w", path, err)
	}
	if file == nil {
		// path resolved to a directory listing
		return "", ErrNotFound
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return content, nil
}

// PostComment posts an issue comment on the pull request.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{
		Body: gogithub.Ptr(body),
	})
	if err != nil {
		if notFound(resp) {
			return ErrNotFound
		}
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func notFound(resp *gogithub.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}
