package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"teralink/internal"
	"teralink/utils"
)

const (
	listEndpoint     = "https://www.terabox.com/share/list"
	downloadEndpoint = "https://www.terabox.com/share/download"
	sharingEndpoint  = "https://www.terabox.com/sharing/link"
)

// Fixed browser-profile headers sent on every outbound call. Set once at
// client construction and treated as read-only afterwards.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Origin":          "https://www.terabox.com",
	"Referer":         "https://www.terabox.com/",
}

// shareListResponse represents the response from the share/list API
type shareListResponse struct {
	Errno int         `json:"errno"`
	List  []shareFile `json:"list"`
}

// shareFile represents one entry of the share/list response
type shareFile struct {
	Filename string `json:"server_filename"`
	Size     int64  `json:"size"`
	FsID     int64  `json:"fs_id"`
	Category int    `json:"category"`
	IsDir    int    `json:"isdir"`
	Thumbs   struct {
		URL3 string `json:"url3"`
	} `json:"thumbs"`
}

// shareDownloadResponse represents the response from the share/download API
type shareDownloadResponse struct {
	Errno int    `json:"errno"`
	Dlink string `json:"dlink"`
}

// Client queries the undocumented Terabox share APIs. It holds two resty
// clients with identical configuration except that the download-resolution
// client never follows redirects, so Location headers stay observable.
type Client struct {
	api       *resty.Client
	dl        *resty.Client
	extractor *utils.SurlExtractor

	listURL     string
	downloadURL string
}

// NewClient creates a Client from the given configuration.
func NewClient(config *internal.Config) (*Client, error) {
	transport, err := utils.BuildTransport(config.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build transport: %w", err)
	}

	timeout := time.Duration(config.UpstreamTimeout) * time.Second

	api := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetHeaders(defaultHeaders)

	dl := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetHeaders(defaultHeaders).
		SetRedirectPolicy(resty.NoRedirectPolicy())

	return &Client{
		api:         api,
		dl:          dl,
		extractor:   utils.NewSurlExtractor(),
		listURL:     listEndpoint,
		downloadURL: downloadEndpoint,
	}, nil
}

// NewClientWithEndpoints is like NewClient but targets custom list and
// download endpoints instead of the public Terabox ones. It exists so tests
// can point the client at httptest stubs; production code uses NewClient.
func NewClientWithEndpoints(config *internal.Config, listURL, downloadURL string) (*Client, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	client.listURL = listURL
	client.downloadURL = downloadURL
	return client, nil
}

// GetFileInfo runs the full pipeline for one share link: extract the surl,
// list the share, resolve a download link for the first file. It never
// returns an error; every failure is folded into the APIResult envelope.
func (c *Client) GetFileInfo(ctx context.Context, rawURL string) internal.APIResult {
	surl, ok := c.extractor.Extract(rawURL)
	if !ok {
		log.Debugf("no surl found in %s", internal.RedactURL(rawURL))
		return internal.APIResult{Success: false, Message: "Invalid Terabox URL"}
	}

	file, err := c.listFirstFile(ctx, surl)
	if err != nil {
		log.Warnf("share listing failed for surl %s: %v", surl, err)
		return internal.APIResult{Success: false, Message: resultMessage(err)}
	}

	record := internal.FileRecord{
		Filename:    file.Filename,
		Size:        file.Size,
		FsID:        file.FsID,
		DownloadURL: c.resolveDownloadURL(ctx, file, surl),
		Thumbnail:   file.Thumbs.URL3,
		Category:    file.Category,
		IsDir:       file.IsDir,
	}
	if record.Filename == "" {
		record.Filename = "Unknown"
	}

	return internal.APIResult{Success: true, Data: &record}
}

// listFirstFile calls the share/list API and returns the first file of the
// share. Later entries are ignored; multi-file shares are out of contract.
func (c *Client) listFirstFile(ctx context.Context, surl string) (*shareFile, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"shorturl":   surl,
			"root":       "1",
			"page":       "1",
			"num":        "20",
			"order":      "time",
			"desc":       "1",
			"web":        "1",
			"channel":    "dubox",
			"clienttype": "0",
			"jsToken":    jsToken(surl),
		}).
		Get(c.listURL)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, internal.NewTeraboxError(resp.StatusCode(), "Failed to fetch data from Terabox", internal.ErrInvalidResponse)
	}

	var listResp shareListResponse
	if err := json.Unmarshal(resp.Bytes(), &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}

	if listResp.Errno != 0 {
		return nil, internal.NewTeraboxError(listResp.Errno, fmt.Sprintf("Terabox API Error: %d", listResp.Errno), internal.ErrUpstreamAPI)
	}

	if len(listResp.List) == 0 {
		return nil, internal.NewTeraboxError(0, "No files found in the link", internal.ErrFileNotFound)
	}

	return &listResp.List[0], nil
}

// resolveDownloadURL resolves a direct download link for file, degrading
// through three tiers: redirect Location, dlink from a JSON body, and a
// constructed guess. It always returns a usable string; a transport failure
// degrades to the sharing-link form of the URL.
func (c *Client) resolveDownloadURL(ctx context.Context, file *shareFile, surl string) string {
	fidList := fmt.Sprintf("[%d]", file.FsID)

	resp, err := c.dl.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"surl":       surl,
			"fid_list":   fidList,
			"channel":    "dubox",
			"clienttype": "0",
			"web":        "1",
			"app_id":     "250528",
		}).
		Get(c.downloadURL)

	// With redirects disabled resty reports the blocked redirect as an
	// error, so the status check has to come before the error check.
	if resp != nil {
		switch resp.StatusCode() {
		case http.StatusMovedPermanently, http.StatusFound:
			return resp.Header().Get("Location")
		}
	}

	if err != nil {
		log.Debugf("download resolution failed for surl %s: %v", surl, err)
		return fmt.Sprintf("%s?surl=%s", sharingEndpoint, surl)
	}

	if resp.StatusCode() == http.StatusOK {
		var dlResp shareDownloadResponse
		if err := json.Unmarshal(resp.Bytes(), &dlResp); err == nil && dlResp.Errno == 0 && dlResp.Dlink != "" {
			return dlResp.Dlink
		}
	}

	// Constructed guess; not guaranteed to resolve.
	return fmt.Sprintf("%s?surl=%s&fid_list=%s", downloadEndpoint, surl, fidList)
}

// resultMessage maps a pipeline error to the caller-facing envelope message.
func resultMessage(err error) string {
	if te, ok := internal.AsTeraboxError(err); ok {
		return te.Message
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
