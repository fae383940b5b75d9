package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"teralink/internal"
)

// handleHome returns the static service descriptor.
func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Terabox Downloader API",
		"version": "1.0",
		"endpoints": gin.H{
			"download": "/api/download",
			"info":     "/api/info",
			"health":   "/health",
		},
		"usage": gin.H{
			"method": "POST",
			"body":   gin.H{"url": "https://terabox.com/s/xxxxx"},
		},
	})
}

// handleDownload resolves a share link to file metadata plus a best-effort
// direct download link.
func (s *Server) handleDownload(c *gin.Context) {
	rawURL, ok := s.requestURL(c)
	if !ok {
		return
	}

	result := s.client.GetFileInfo(c.Request.Context(), rawURL)
	c.JSON(http.StatusOK, result)
}

// handleInfo behaves exactly like handleDownload except that the resolved
// download link is stripped from a successful response.
func (s *Server) handleInfo(c *gin.Context) {
	rawURL, ok := s.requestURL(c)
	if !ok {
		return
	}

	result := s.client.GetFileInfo(c.Request.Context(), rawURL)
	if result.Success && result.Data != nil {
		data := *result.Data
		data.DownloadURL = ""
		result.Data = &data
	}
	c.JSON(http.StatusOK, result)
}

// handleHealth is a static liveness probe; it must not call upstream.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "API is running",
	})
}

// requestURL reads the share link from the JSON body (POST) or the query
// string (GET). A missing link is the only 400; a body that is not JSON at
// all is treated as a server error. A url of the wrong JSON type is a soft
// failure reported in the envelope, not a server error.
func (s *Server) requestURL(c *gin.Context) (string, bool) {
	var rawURL string

	if c.Request.Method == http.MethodPost {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			log.Warnf("failed to parse request body: %v", err)
			c.JSON(http.StatusInternalServerError, internal.APIResult{
				Success: false,
				Message: "Server error",
			})
			return "", false
		}
		switch v := body["url"].(type) {
		case string:
			rawURL = v
		case nil:
		default:
			c.JSON(http.StatusOK, internal.APIResult{
				Success: false,
				Message: "Error: url must be a string",
			})
			return "", false
		}
	} else {
		rawURL = c.Query("url")
	}

	if rawURL == "" {
		c.JSON(http.StatusBadRequest, internal.APIResult{
			Success: false,
			Message: "URL parameter is required",
		})
		return "", false
	}

	return rawURL, true
}
