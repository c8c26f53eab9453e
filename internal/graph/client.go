package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/storage"
)

// DefaultBaseURL is the Graph API v1.0 endpoint
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// UploadResult describes where an attachment file landed
type UploadResult struct {
	SiteID  string
	DriveID string
	Path    string
}

// MailClient is the mail API surface the pipeline depends on. Implementations
// can be substituted in tests.
type MailClient interface {
	ListMessages(ctx context.Context, filter string) ([]Message, error)
	MarkRead(ctx context.Context, messageID string, read bool) error
	ListAttachments(ctx context.Context, messageID string) ([]FileAttachment, error)
	DownloadAttachment(ctx context.Context, att FileAttachment) (string, error)
	UploadToDrive(ctx context.Context, localPath, folderPath string) (*UploadResult, error)
	UploadToSite(ctx context.Context, siteName, localPath, folderPath string) (*UploadResult, error)
}

// ClientConfig holds optional settings for Client
type ClientConfig struct {
	BaseURL     string // defaults to DefaultBaseURL
	MessagesURL string // defaults to BaseURL + "/me/messages"
	Hostname    string // tenant hostname segment for site lookups
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client calls the Graph mail API. Downloaded attachments are staged through
// the injected Store.
type Client struct {
	httpClient  *http.Client
	tokens      TokenProvider
	staging     storage.Store
	baseURL     string
	messagesURL string
	hostname    string
	logger      *slog.Logger
}

// NewClient creates a Graph API client
func NewClient(tokens TokenProvider, staging storage.Store, cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	messagesURL := cfg.MessagesURL
	if messagesURL == "" {
		messagesURL = baseURL + "/me/messages"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:  httpClient,
		tokens:      tokens,
		staging:     staging,
		baseURL:     baseURL,
		messagesURL: messagesURL,
		hostname:    cfg.Hostname,
		logger:      logger,
	}
}

// do issues an authenticated request. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil && method != http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// apiError drains the response body into an APIError
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}

// ListMessages lists messages matching the given OData filter expression.
// The filter is passed through verbatim; an empty result is valid.
func (c *Client) ListMessages(ctx context.Context, filter string) ([]Message, error) {
	listURL, err := url.Parse(c.messagesURL)
	if err != nil {
		return nil, fmt.Errorf("invalid messages URL %q: %w", c.messagesURL, err)
	}
	query := listURL.Query()
	query.Set("$filter", filter)
	listURL.RawQuery = query.Encode()

	resp, err := c.do(ctx, http.MethodGet, listURL.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var list MessageList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode message list: %w", err)
	}
	return list.Value, nil
}

// MarkRead flips a message's read flag via a partial update
func (c *Client) MarkRead(ctx context.Context, messageID string, read bool) error {
	payload, err := json.Marshal(map[string]bool{"isRead": read})
	if err != nil {
		return fmt.Errorf("failed to encode patch body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPatch, c.messagesURL+"/"+messageID, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	c.logger.Info("message read flag updated", "message_id", messageID, "read", read)
	return nil
}

// ListAttachments fetches a message's attachments, keeping only the file
// variant. Item and reference attachments are silently dropped.
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]FileAttachment, error) {
	resp, err := c.do(ctx, http.MethodGet, c.messagesURL+"/"+messageID+"/attachments", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var list attachmentList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode attachment list: %w", err)
	}

	attachments := make([]FileAttachment, 0, len(list.Value))
	for _, att := range list.Value {
		if att.ODataType == fileAttachmentType {
			attachments = append(attachments, att)
		}
	}
	return attachments, nil
}

// DownloadAttachment stages an attachment's bytes locally and returns the
// staged path. Inline base64 content is decoded directly; otherwise the
// media read link is streamed with an authenticated GET.
func (c *Client) DownloadAttachment(ctx context.Context, att FileAttachment) (string, error) {
	if att.MediaReadLink == "" {
		if att.ContentBytes == "" {
			return "", ErrNoContent
		}
		data, err := base64.StdEncoding.DecodeString(att.ContentBytes)
		if err != nil {
			return "", fmt.Errorf("failed to decode attachment content: %w", err)
		}
		path, err := c.staging.Save(att.Name, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		c.logger.Info("attachment staged from inline content", "name", att.Name, "path", path)
		return path, nil
	}

	resp, err := c.do(ctx, http.MethodGet, att.MediaReadLink, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	path, err := c.staging.Save(att.Name, resp.Body)
	if err != nil {
		return "", err
	}
	c.logger.Info("attachment downloaded via read link", "name", att.Name, "path", path)
	return path, nil
}

// SiteID resolves a site name to its site identifier
func (c *Client) SiteID(ctx context.Context, siteName string) (string, error) {
	lookupURL := fmt.Sprintf("%s/%s:/sites/%s", c.baseURL, c.hostname, siteName)
	resp, err := c.do(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var site struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&site); err != nil {
		return "", fmt.Errorf("failed to decode site info: %w", err)
	}
	return site.ID, nil
}

// DriveID resolves a site's default document drive identifier
func (c *Client) DriveID(ctx context.Context, siteID string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/sites/%s/drive", c.baseURL, siteID), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var drive struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&drive); err != nil {
		return "", fmt.Errorf("failed to decode drive info: %w", err)
	}
	return drive.ID, nil
}

// UploadToDrive PUTs a staged file into the personal drive under folderPath
func (c *Client) UploadToDrive(ctx context.Context, localPath, folderPath string) (*UploadResult, error) {
	fileName := filepath.Base(localPath)
	uploadURL := fmt.Sprintf("%s/me/drive/root:/%s/%s:/content", c.baseURL, folderPath, fileName)

	if err := c.putFile(ctx, uploadURL, localPath); err != nil {
		return nil, err
	}

	c.logger.Info("file uploaded to drive", "file", fileName, "folder", folderPath)
	return &UploadResult{Path: "/" + folderPath + "/" + fileName}, nil
}

// UploadToSite PUTs a staged file into a named site's shared drive. The site
// and drive identifiers are looked up first and returned with the result.
func (c *Client) UploadToSite(ctx context.Context, siteName, localPath, folderPath string) (*UploadResult, error) {
	siteID, err := c.SiteID(ctx, siteName)
	if err != nil {
		return nil, err
	}
	driveID, err := c.DriveID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(localPath)
	uploadURL := fmt.Sprintf("%s/sites/%s/drives/%s/root:/%s/%s:/content",
		c.baseURL, siteID, driveID, folderPath, fileName)

	if err := c.putFile(ctx, uploadURL, localPath); err != nil {
		return nil, err
	}

	c.logger.Info("file uploaded to site drive", "file", fileName, "site", siteName, "folder", folderPath)
	return &UploadResult{SiteID: siteID, DriveID: driveID, Path: "/" + folderPath + "/" + fileName}, nil
}

// putFile streams a local file to an upload URL, accepting 200 and 201
func (c *Client) putFile(ctx context.Context, uploadURL, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file for upload: %w", err)
	}
	defer file.Close()

	resp, err := c.do(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}
