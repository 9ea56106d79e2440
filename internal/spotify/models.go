package spotify

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spotkit/internal/shared"
)

// Image is cover art or a profile picture. Dimensions are absent for some user images.
type Image struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
}

// AlbumType is what an album is, or for artist albums, how the artist relates to it.
type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeAppearsOn   AlbumType = "appears_on"
	AlbumTypeCompilation AlbumType = "compilation"
)

// ParseAlbumType accepts the API spelling in any case.
func ParseAlbumType(s string) (AlbumType, error) {
	switch t := AlbumType(strings.ToLower(strings.TrimSpace(s))); t {
	case AlbumTypeAlbum, AlbumTypeSingle, AlbumTypeAppearsOn, AlbumTypeCompilation:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown album type %q", shared.ErrInvalidArgument, s)
	}
}

// SimplifiedArtist is the artist stub embedded in tracks and albums.
type SimplifiedArtist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
}

// SimplifiedAlbum is the album stub embedded in tracks and search results.
type SimplifiedAlbum struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AlbumType        AlbumType          `json:"album_type"`
	AvailableMarkets []string           `json:"available_markets"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	Images           []Image            `json:"images"`
	Name             string             `json:"name"`
	ReleaseDate      string             `json:"release_date"`
	TotalTracks      int                `json:"total_tracks"`
	URI              string             `json:"uri"`
}

// SimplifiedTrack is a track without album details, as listed on an album.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMS       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	PreviewURL       *string            `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	URI              string             `json:"uri"`
}

// Track is the full track object.
type Track struct {
	Album            SimplifiedAlbum    `json:"album"`
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMS       int                `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalIDs      map[string]string  `json:"external_ids"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             string             `json:"href"`
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Popularity       int                `json:"popularity"`
	PreviewURL       *string            `json:"preview_url"`
	TrackNumber      int                `json:"track_number"`
	URI              string             `json:"uri"`
}

// ArtistNames joins the credited artists with ", ".
func (t Track) ArtistNames() string {
	return artistNames(t.Artists)
}

func artistNames(artists []SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

type Followers struct {
	Href  *string `json:"href"`
	Total int     `json:"total"`
}

// Artist is the full artist object.
type Artist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    Followers         `json:"followers"`
	Genres       []string          `json:"genres"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images"`
	Name         string            `json:"name"`
	Popularity   int               `json:"popularity"`
	URI          string            `json:"uri"`
}

// Page is an offset-paged list. Next is nil on the last page.
type Page[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Next     *string `json:"next"`
	Offset   int     `json:"offset"`
	Previous *string `json:"previous"`
	Total    int     `json:"total"`
}

type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Album is the full album object, including its first page of tracks.
type Album struct {
	Artists              []SimplifiedArtist    `json:"artists"`
	AlbumType            AlbumType             `json:"album_type"`
	AvailableMarkets     []string              `json:"available_markets"`
	Copyrights           []Copyright           `json:"copyrights"`
	ExternalIDs          map[string]string     `json:"external_ids"`
	ExternalURLs         map[string]string     `json:"external_urls"`
	Genres               []string              `json:"genres"`
	Href                 string                `json:"href"`
	ID                   string                `json:"id"`
	Images               []Image               `json:"images"`
	Label                string                `json:"label"`
	Name                 string                `json:"name"`
	Popularity           int                   `json:"popularity"`
	ReleaseDate          string                `json:"release_date"`
	ReleaseDatePrecision string                `json:"release_date_precision"`
	Tracks               Page[SimplifiedTrack] `json:"tracks"`
	URI                  string                `json:"uri"`
}

// ArtistNames joins the credited artists with ", ".
func (a Album) ArtistNames() string {
	return artistNames(a.Artists)
}

// PublicUser is what anyone can see of a profile.
type PublicUser struct {
	DisplayName  *string           `json:"display_name"`
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    *Followers        `json:"followers"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images"`
	URI          string            `json:"uri"`
}

// Name is the display name, falling back to the user id.
func (u PublicUser) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.ID
}

// PrivateUser is the current user's own profile. Email, Country and Product need the
// user-read-email and user-read-private scopes.
type PrivateUser struct {
	PublicUser
	Country string `json:"country"`
	Email   string `json:"email"`
	Product string `json:"product"`
}

// TracksRef points at a playlist's tracks without listing them.
type TracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

type SimplifiedPlaylist struct {
	Collaborative bool              `json:"collaborative"`
	Description   string            `json:"description"`
	ExternalURLs  map[string]string `json:"external_urls"`
	Href          string            `json:"href"`
	ID            string            `json:"id"`
	Images        []Image           `json:"images"`
	Name          string            `json:"name"`
	Owner         PublicUser        `json:"owner"`
	Public        *bool             `json:"public"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        TracksRef         `json:"tracks"`
	URI           string            `json:"uri"`
}

// Context is where a track was played from: an album, artist or playlist.
type Context struct {
	Type         string            `json:"type"`
	URI          string            `json:"uri"`
	Href         string            `json:"href"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type PlayHistory struct {
	Track    SimplifiedTrack `json:"track"`
	PlayedAt Timestamp       `json:"played_at"`
	Context  *Context        `json:"context"`
}

type Cursors struct {
	Before *string `json:"before"`
	After  *string `json:"after"`
}

// CursorPage is a cursor-paged list. Total is not always reported.
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Next    *string `json:"next"`
	Cursors Cursors `json:"cursors"`
	Total   *int    `json:"total"`
}

type tracksResponse struct {
	Tracks []Track `json:"tracks"`
}

type artistsResponse struct {
	Artists []Artist `json:"artists"`
}

type albumsResponse struct {
	Albums []Album `json:"albums"`
}

type albumSearch struct {
	Albums Page[SimplifiedAlbum] `json:"albums"`
}

type artistSearch struct {
	Artists Page[Artist] `json:"artists"`
}

type trackSearch struct {
	Tracks Page[Track] `json:"tracks"`
}

type playlistSearch struct {
	Playlists Page[SimplifiedPlaylist] `json:"playlists"`
}
