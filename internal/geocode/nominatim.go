package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/config"
	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const maxResponseSize = 1 << 20

// Geocoder resolves a free-form location to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (domain.Geocoded, error)
}

// Nominatim searches a Nominatim compatible API. Requests are rate limited
// as required by the public instance's usage policy.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

type Option func(*Nominatim)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Nominatim) {
		n.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Nominatim) {
		n.logger = logger
	}
}

func NewNominatim(cfg config.Geocoder, opts ...Option) *Nominatim {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	n := &Nominatim{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Nominatim) Lookup(ctx context.Context, query string) (domain.Geocoded, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Geocoded{}, domain.ErrPlaceNotFound
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return domain.Geocoded{}, errors.Wrap(err, "geocoding cancelled")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Geocoded{}, errors.Wrap(err, "failed to build geocoding request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	n.logger.Debug("geocoding", "query", query)
	resp, err := n.client.Do(req)
	if err != nil {
		return domain.Geocoded{}, errors.Wrap(err, "geocoding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Geocoded{}, errors.Errorf("geocoding failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.Geocoded{}, errors.Wrap(err, "failed to read geocoding response")
	}
	return parseSearch(body)
}

// parseSearch reads the first result of a search response. Nominatim
// encodes coordinates as strings.
func parseSearch(body []byte) (domain.Geocoded, error) {
	if !gjson.ValidBytes(body) {
		return domain.Geocoded{}, errors.New("geocoding response is not valid JSON")
	}
	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return domain.Geocoded{}, domain.ErrPlaceNotFound
	}

	lat, lon := first.Get("lat"), first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return domain.Geocoded{}, errors.New("geocoding result has no coordinates")
	}
	return domain.Geocoded{
		Point:       orb.Point{lon.Float(), lat.Float()},
		DisplayName: first.Get("display_name").String(),
	}, nil
}
