package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	cfg "github.com/pagequeue/pagequeue/configs"
	"github.com/pagequeue/pagequeue/internal/transfer"
	"golang.org/x/oauth2"
)

const facebookGraphURL = "https://graph.facebook.com/v18.0"

// FacebookPublisher posts to a Facebook page through the Graph API. The page
// access token is carried as a Bearer header by the oauth2 transport.
type FacebookPublisher struct {
	pageID  string
	baseURL string
	client  *http.Client
}

func NewFacebookPublisher(fb cfg.Facebook, timeout time.Duration) *FacebookPublisher {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: fb.AccessToken})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = timeout

	return &FacebookPublisher{
		pageID:  fb.PageID,
		baseURL: facebookGraphURL,
		client:  client,
	}
}

// UploadMedia submits the image to the page's photo edge without publishing
// it, returning the photo id used as attached media in the feed post.
func (f *FacebookPublisher) UploadMedia(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("source", filename)
	if err != nil {
		return "", fmt.Errorf("error building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("error building upload form: %w", err)
	}
	if err := writer.WriteField("published", "false"); err != nil {
		return "", fmt.Errorf("error building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error building upload form: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/photos", f.baseURL, f.pageID)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, &body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	id, err := f.doGraphCall(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("photo upload failed: %w", err)
	}
	return id, nil
}

// CreatePost publishes a feed post referencing an already uploaded photo.
func (f *FacebookPublisher) CreatePost(ctx context.Context, mediaID, caption string) (string, error) {
	attached, err := json.Marshal([]map[string]string{{"media_fbid": mediaID}})
	if err != nil {
		return "", fmt.Errorf("error marshalling attached media: %w", err)
	}

	form := url.Values{}
	form.Set("message", caption)
	form.Set("attached_media", string(attached))

	reqURL := fmt.Sprintf("%s/%s/feed", f.baseURL, f.pageID)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	id, err := f.doGraphCall(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("feed post creation failed: %w", err)
	}
	return id, nil
}

func (f *FacebookPublisher) doGraphCall(req *http.Request) (string, error) {
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from Facebook: %d (%s)",
			resp.StatusCode, graphErrorMessage(respBody))
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	// the feed edge may answer with post_id instead of id
	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", fmt.Errorf("no id returned from Facebook")
	}
	return result.ID, nil
}

// CheckConnection fetches the page identity. Read-only, used by operator
// tooling to report connected/disconnected.
func (f *FacebookPublisher) CheckConnection(ctx context.Context) transfer.ConnectionStatus {
	reqURL := fmt.Sprintf("%s/%s?fields=id,name,category", f.baseURL, f.pageID)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return transfer.ConnectionStatus{Error: err.Error()}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return transfer.ConnectionStatus{Error: "connection test failed: " + err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return transfer.ConnectionStatus{Error: "connection test failed: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		msg := graphErrorMessage(respBody)
		if msg == "" {
			msg = "failed to connect to Facebook"
		}
		return transfer.ConnectionStatus{Error: msg}
	}

	var page transfer.PageInfo
	if err := json.Unmarshal(respBody, &page); err != nil {
		return transfer.ConnectionStatus{Error: "error parsing response: " + err.Error()}
	}

	return transfer.ConnectionStatus{Connected: true, PageInfo: &page}
}

func graphErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
