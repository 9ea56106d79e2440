package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/transport"
)

// APIURL is the Web API root.
const APIURL = "https://api.spotify.com/v1"

// Request limits the API enforces for several-item lookups.
const (
	maxTrackIDs  = 50
	maxArtistIDs = 50
	maxAlbumIDs  = 20
)

// Client calls the Web API. It adds no credentials of its own.
type Client struct {
	http    transport.HTTPClient
	baseURL string
	logger  *log.Logger
}

// NewClient builds a client rooted at baseURL, defaulting to [APIURL].
func NewClient(client transport.HTTPClient, baseURL string, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = APIURL
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Client{http: client, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (c *Client) endpoint(segments ...string) string {
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(segments, "/")
}

// get fetches rawURL and decodes the body into T. Failures follow [transport.Check].
func get[T any](ctx context.Context, c *Client, rawURL string, params map[string]string) (*T, error) {
	c.logger.Debug("api request", "url", rawURL)

	body, err := transport.Check(c.http.Get(ctx, rawURL, params, nil))
	if err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &v, nil
}

func joinIDs(ids []string, limit int) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: no IDs provided", shared.ErrMissingArgument)
	}
	if len(ids) > limit {
		return "", fmt.Errorf("%w: maximum %d IDs allowed, got %d", shared.ErrInvalidArgument, limit, len(ids))
	}
	return strings.Join(ids, ","), nil
}

func setMarket(params map[string]string, market string) map[string]string {
	if market != "" {
		params["market"] = market
	}
	return params
}

// Track retrieves a single track by ID.
func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	return get[Track](ctx, c, c.endpoint("tracks", id), nil)
}

// Tracks retrieves up to 50 tracks. market is an optional ISO 3166-1 alpha-2 code.
func (c *Client) Tracks(ctx context.Context, ids []string, market string) ([]Track, error) {
	joined, err := joinIDs(ids, maxTrackIDs)
	if err != nil {
		return nil, err
	}
	resp, err := get[tracksResponse](ctx, c, c.endpoint("tracks"), setMarket(map[string]string{"ids": joined}, market))
	if err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// Artist retrieves a single artist by ID.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	return get[Artist](ctx, c, c.endpoint("artists", id), nil)
}

// Artists retrieves up to 50 artists.
func (c *Client) Artists(ctx context.Context, ids []string) ([]Artist, error) {
	joined, err := joinIDs(ids, maxArtistIDs)
	if err != nil {
		return nil, err
	}
	resp, err := get[artistsResponse](ctx, c, c.endpoint("artists"), map[string]string{"ids": joined})
	if err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// AlbumsOpts filters [Client.ArtistAlbums]. Zero values are left to the API's defaults.
type AlbumsOpts struct {
	Groups []AlbumType
	Market string
	Limit  int
	Offset int
}

func (o AlbumsOpts) params() map[string]string {
	params := map[string]string{}
	if len(o.Groups) > 0 {
		groups := make([]string, len(o.Groups))
		for i, g := range o.Groups {
			groups[i] = string(g)
		}
		params["include_groups"] = strings.Join(groups, ",")
	}
	if o.Limit > 0 {
		params["limit"] = strconv.Itoa(o.Limit)
	}
	if o.Offset > 0 {
		params["offset"] = strconv.Itoa(o.Offset)
	}
	return setMarket(params, o.Market)
}

// ArtistAlbums lists an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, id string, opts AlbumsOpts) (*Page[SimplifiedAlbum], error) {
	return get[Page[SimplifiedAlbum]](ctx, c, c.endpoint("artists", id, "albums"), opts.params())
}

// ArtistTopTracks returns an artist's top ten tracks in country.
func (c *Client) ArtistTopTracks(ctx context.Context, id, country string) ([]Track, error) {
	if country == "" {
		return nil, fmt.Errorf("%w: country", shared.ErrMissingArgument)
	}
	resp, err := get[tracksResponse](ctx, c, c.endpoint("artists", id, "top-tracks"), map[string]string{"country": country})
	if err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// RelatedArtists returns artists similar to id.
func (c *Client) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	resp, err := get[artistsResponse](ctx, c, c.endpoint("artists", id, "related-artists"), nil)
	if err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// Album retrieves an album by ID.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	return get[Album](ctx, c, c.endpoint("albums", id), nil)
}

// Albums retrieves up to 20 albums.
func (c *Client) Albums(ctx context.Context, ids []string) ([]Album, error) {
	joined, err := joinIDs(ids, maxAlbumIDs)
	if err != nil {
		return nil, err
	}
	resp, err := get[albumsResponse](ctx, c, c.endpoint("albums"), map[string]string{"ids": joined})
	if err != nil {
		return nil, err
	}
	return resp.Albums, nil
}

// AlbumTracks pages through an album's tracks. A limit of zero or less requests 50.
func (c *Client) AlbumTracks(ctx context.Context, id string, limit, offset int) (*Page[SimplifiedTrack], error) {
	if limit <= 0 {
		limit = 50
	}
	params := map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}
	return get[Page[SimplifiedTrack]](ctx, c, c.endpoint("albums", id, "tracks"), params)
}

// User retrieves someone's public profile.
func (c *Client) User(ctx context.Context, id string) (*PublicUser, error) {
	return get[PublicUser](ctx, c, c.endpoint("users", id), nil)
}

// CurrentUser retrieves the profile of the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*PrivateUser, error) {
	return get[PrivateUser](ctx, c, c.endpoint("me"), nil)
}

// CurrentUserRecentlyPlayed lists recently played tracks. A limit of zero or less requests 50.
// Requires the user-read-recently-played scope.
func (c *Client) CurrentUserRecentlyPlayed(ctx context.Context, limit int) (*CursorPage[PlayHistory], error) {
	if limit <= 0 {
		limit = 50
	}
	return get[CursorPage[PlayHistory]](ctx, c, c.endpoint("me", "player", "recently-played"), map[string]string{
		"limit": strconv.Itoa(limit),
	})
}

// NextPage follows a cursor page's next link, failing with [shared.ErrNoPagesLeft] on the last page.
func NextPage[T any](ctx context.Context, c *Client, page *CursorPage[T]) (*CursorPage[T], error) {
	if page == nil || page.Next == nil {
		return nil, shared.ErrNoPagesLeft
	}
	return get[CursorPage[T]](ctx, c, *page.Next, nil)
}

// NextOffsetPage follows an offset page's next link, failing with [shared.ErrNoPagesLeft] on the last page.
func NextOffsetPage[T any](ctx context.Context, c *Client, page *Page[T]) (*Page[T], error) {
	if page == nil || page.Next == nil {
		return nil, shared.ErrNoPagesLeft
	}
	return get[Page[T]](ctx, c, *page.Next, nil)
}
