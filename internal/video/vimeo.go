package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qbacid/DentorAcademy/internal/config"
)

var ErrVideoNotFound = errors.New("video not found")

const defaultOEmbedBaseURL = "https://vimeo.com"

// Metadata is the subset of Vimeo oEmbed data the platform cares about.
type Metadata struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	ThumbnailURL    string `json:"thumbnail_url"`
	EmbedHTML       string `json:"embed_html"`
}

// Provider resolves hosted video metadata. Implementations must treat the
// input as untrusted: arbitrary strings arrive straight from course editors.
type Provider interface {
	Metadata(ctx context.Context, videoID string) (*Metadata, error)
	Validate(ctx context.Context, rawURL string) (*Metadata, error)
}

type vimeoProvider struct {
	client *resty.Client
}

// NewVimeoProvider builds a provider against the public Vimeo oEmbed
// endpoint. baseURL overrides the endpoint host; pass "" for the default.
func NewVimeoProvider(baseURL string) Provider {
	if baseURL == "" {
		baseURL = defaultOEmbedBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &vimeoProvider{client: client}
}

type oembedResponse struct {
	Title        string  `json:"title"`
	Duration     int     `json:"duration"`
	ThumbnailURL string  `json:"thumbnail_url"`
	HTML         string  `json:"html"`
	VideoID      float64 `json:"video_id"`
}

func (p *vimeoProvider) Metadata(ctx context.Context, videoID string) (*Metadata, error) {
	log := config.WithContext(ctx)

	var body oembedResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("url", fmt.Sprintf("https://vimeo.com/%s", videoID)).
		SetResult(&body).
		Get("/api/oembed.json")
	if err != nil {
		log.WithError(err).Error("Vimeo oEmbed request failed")
		return nil, fmt.Errorf("vimeo request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &Metadata{
			VideoID:         videoID,
			Title:           body.Title,
			DurationSeconds: body.Duration,
			ThumbnailURL:    body.ThumbnailURL,
			EmbedHTML:       body.HTML,
		}, nil
	case http.StatusNotFound, http.StatusForbidden:
		// Forbidden covers private videos, which are equally unusable as
		// course content.
		return nil, ErrVideoNotFound
	default:
		log.WithField("status", resp.StatusCode()).Error("Unexpected Vimeo oEmbed status")
		return nil, fmt.Errorf("vimeo returned status %d", resp.StatusCode())
	}
}

// Validate extracts the video id from rawURL and confirms the video exists.
func (p *vimeoProvider) Validate(ctx context.Context, rawURL string) (*Metadata, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return p.Metadata(ctx, videoID)
}
