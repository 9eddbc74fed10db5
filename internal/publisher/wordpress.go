package publisher

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linkplace/placeflow/internal/transfer"
)

const requestTimeout = 30 * time.Second

// WordPressGateway publishes articles through the WordPress REST API. Site
// credentials are "username:application-password" pairs sent as Basic auth.
type WordPressGateway struct {
	client *http.Client
}

func NewWordPressGateway() *WordPressGateway {
	return &WordPressGateway{
		client: &http.Client{Timeout: requestTimeout},
	}
}

func (g *WordPressGateway) Publish(ctx context.Context, siteBaseURL, credential string, post *transfer.RemotePost) (string, error) {
	payload := map[string]interface{}{
		"title":   post.Title,
		"content": post.Content,
		"slug":    post.Slug,
		"status":  "publish",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/wp-json/wp/v2/posts", siteBaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", basicAuth(credential))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code from WordPress: %d (%s)", resp.StatusCode, respBody)
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == 0 {
		return "", fmt.Errorf("no post ID returned from WordPress")
	}

	return fmt.Sprintf("%d", result.ID), nil
}

func (g *WordPressGateway) Delete(ctx context.Context, siteBaseURL, credential, remotePostID string) error {
	reqURL := fmt.Sprintf("%s/wp-json/wp/v2/posts/%s?force=true", siteBaseURL, remotePostID)
	req, err := http.NewRequestWithContext(ctx, "DELETE", reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", basicAuth(credential))

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	// A post removed out of band is already in the state we want.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code from WordPress: %d (%s)", resp.StatusCode, respBody)
	}
	return nil
}

func basicAuth(credential string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credential))
}
