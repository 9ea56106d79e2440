package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/spotkit/internal/shared"
)

// SearchType is the kind of item a search returns.
type SearchType string

const (
	SearchTypeAlbum    SearchType = "album"
	SearchTypeArtist   SearchType = "artist"
	SearchTypeTrack    SearchType = "track"
	SearchTypePlaylist SearchType = "playlist"
)

// SearchOpts pages and localizes a search. A Limit of zero or less requests 10.
type SearchOpts struct {
	Limit  int
	Offset int
	Market string
}

func search[T any](ctx context.Context, c *Client, query string, kind SearchType, opts SearchOpts) (*T, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	params := map[string]string{
		"q":      query,
		"type":   string(kind),
		"limit":  strconv.Itoa(opts.Limit),
		"offset": strconv.Itoa(opts.Offset),
	}
	return get[T](ctx, c, c.endpoint("search"), setMarket(params, opts.Market))
}

func (c *Client) SearchAlbum(ctx context.Context, query string, opts SearchOpts) (*Page[SimplifiedAlbum], error) {
	resp, err := search[albumSearch](ctx, c, query, SearchTypeAlbum, opts)
	if err != nil {
		return nil, err
	}
	return &resp.Albums, nil
}

func (c *Client) SearchArtist(ctx context.Context, query string, opts SearchOpts) (*Page[Artist], error) {
	resp, err := search[artistSearch](ctx, c, query, SearchTypeArtist, opts)
	if err != nil {
		return nil, err
	}
	return &resp.Artists, nil
}

func (c *Client) SearchTrack(ctx context.Context, query string, opts SearchOpts) (*Page[Track], error) {
	resp, err := search[trackSearch](ctx, c, query, SearchTypeTrack, opts)
	if err != nil {
		return nil, err
	}
	return &resp.Tracks, nil
}

func (c *Client) SearchPlaylist(ctx context.Context, query string, opts SearchOpts) (*Page[SimplifiedPlaylist], error) {
	resp, err := search[playlistSearch](ctx, c, query, SearchTypePlaylist, opts)
	if err != nil {
		return nil, err
	}
	return &resp.Playlists, nil
}
