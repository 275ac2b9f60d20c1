package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/models"
)

const defaultUnsplashBaseURL = "https://api.unsplash.com"

// UnsplashPhoto mirrors the fields of the random-photos response we consume
type UnsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	AltDescription string `json:"alt_description"`
	Description    string `json:"description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Links          struct {
		HTML string `json:"html"`
	} `json:"links"`
	TopicSubmissions map[string]json.RawMessage `json:"topic_submissions"`
	User             struct {
		ID           string `json:"id"`
		Username     string `json:"username"`
		Name         string `json:"name"`
		ProfileImage struct {
			Medium string `json:"medium"`
		} `json:"profile_image"`
	} `json:"user"`
}

// UnsplashClient fetches random photos from the Unsplash API
type UnsplashClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

// NewUnsplashClient creates a new UnsplashClient
func NewUnsplashClient(accessKey string) *UnsplashClient {
	return &UnsplashClient{
		baseURL:    defaultUnsplashBaseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewUnsplashClientWithBaseURL is used by tests to point at a fake server
func NewUnsplashClientWithBaseURL(accessKey, baseURL string) *UnsplashClient {
	c := NewUnsplashClient(accessKey)
	c.baseURL = baseURL
	return c
}

// RandomPhotos fetches count random photos
func (c *UnsplashClient) RandomPhotos(ctx context.Context, count int) ([]UnsplashPhoto, error) {
	if c.accessKey == "" {
		return nil, errors.New("unsplash access key not configured")
	}

	url := fmt.Sprintf("%s/photos/random?count=%d&client_id=%s", c.baseURL, count, c.accessKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build unsplash request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch unsplash photos")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unsplash returned status %d", resp.StatusCode)
	}

	var photos []UnsplashPhoto
	if err := json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return nil, errors.Wrap(err, "decode unsplash response")
	}
	return photos, nil
}

// PinFromPhoto normalizes an Unsplash photo into a catalog pin
func PinFromPhoto(photo UnsplashPhoto) models.Pin {
	title := photo.Description
	if title == "" {
		title = photo.AltDescription
	}
	if title == "" {
		title = fmt.Sprintf("Image by %s", photo.User.Name)
	}

	about := photo.Description
	if about == "" {
		about = photo.AltDescription
	}

	category := "Uncategorized"
	for topic := range photo.TopicSubmissions {
		category = topic
		break
	}

	alt := photo.AltDescription
	if alt == "" {
		alt = "Unsplash image"
	}

	return models.Pin{
		ID: photo.ID,
		Image: models.PinImage{
			URL:    photo.URLs.Regular,
			Alt:    alt,
			Width:  photo.Width,
			Height: photo.Height,
		},
		Destination: photo.Links.HTML,
		Title:       title,
		About:       about,
		Category:    category,
		Save:        []string{},
		PostedBy: models.PinAuthor{
			ID:       photo.User.ID,
			UserName: photo.User.Username,
			Image:    photo.User.ProfileImage.Medium,
		},
	}
}
