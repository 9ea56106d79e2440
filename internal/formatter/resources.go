package formatter

import (
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/spotify"
)

func Tracks(title string, tracks []spotify.Track) Table {
	t := Table{
		Title:   title,
		Headers: []string{"#", "ID", "Title", "Artist", "Album", "Duration"},
		Source:  tracks,
	}
	for i, tr := range tracks {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i + 1), tr.ID, tr.Name, tr.ArtistNames(), tr.Album.Name, FormatDuration(tr.DurationMS),
		})
	}
	return t
}

// AlbumTracks lists tracks in album order.
func AlbumTracks(title string, tracks []spotify.SimplifiedTrack) Table {
	t := Table{
		Title:   title,
		Headers: []string{"#", "ID", "Title", "Artist", "Duration"},
		Source:  tracks,
	}
	for _, tr := range tracks {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(tr.TrackNumber), tr.ID, tr.Name, artists(tr.Artists), FormatDuration(tr.DurationMS),
		})
	}
	return t
}

func Artists(title string, list []spotify.Artist) Table {
	t := Table{
		Title:   title,
		Headers: []string{"ID", "Name", "Genres", "Followers", "Popularity"},
		Source:  list,
	}
	for _, a := range list {
		t.Rows = append(t.Rows, []string{
			a.ID, a.Name, strings.Join(a.Genres, ", "), strconv.Itoa(a.Followers.Total), strconv.Itoa(a.Popularity),
		})
	}
	return t
}

func Albums(title string, list []spotify.SimplifiedAlbum) Table {
	t := Table{
		Title:   title,
		Headers: []string{"ID", "Name", "Artist", "Type", "Released"},
		Source:  list,
	}
	for _, a := range list {
		t.Rows = append(t.Rows, []string{a.ID, a.Name, artists(a.Artists), string(a.AlbumType), a.ReleaseDate})
	}
	return t
}

// Album lists the album's first page of tracks under a title naming the album.
func Album(a *spotify.Album) Table {
	t := AlbumTracks(a.Name+" by "+a.ArtistNames()+" ("+a.ReleaseDate+")", a.Tracks.Items)
	t.Source = a
	return t
}

func Playlists(title string, list []spotify.SimplifiedPlaylist) Table {
	t := Table{
		Title:   title,
		Headers: []string{"ID", "Name", "Owner", "Tracks", "Visibility"},
		Source:  list,
	}
	for _, p := range list {
		t.Rows = append(t.Rows, []string{p.ID, p.Name, p.Owner.Name(), strconv.Itoa(p.Tracks.Total), visibility(p.Public)})
	}
	return t
}

func RecentlyPlayed(items []spotify.PlayHistory) Table {
	t := Table{
		Title:   "Recently Played",
		Headers: []string{"Played At", "Title", "Artist", "Context"},
		Source:  items,
	}
	for _, h := range items {
		ctx := ""
		if h.Context != nil {
			ctx = h.Context.Type
		}
		t.Rows = append(t.Rows, []string{
			h.PlayedAt.Local().Format(time.DateTime), h.Track.Name, artists(h.Track.Artists), ctx,
		})
	}
	return t
}

func User(u *spotify.PrivateUser) Table {
	followers := "0"
	if u.Followers != nil {
		followers = strconv.Itoa(u.Followers.Total)
	}
	rows := [][]string{
		{"ID", u.ID},
		{"Name", u.Name()},
		{"Followers", followers},
	}
	if u.Email != "" {
		rows = append(rows, []string{"Email", u.Email})
	}
	if u.Country != "" {
		rows = append(rows, []string{"Country", u.Country})
	}
	if u.Product != "" {
		rows = append(rows, []string{"Product", u.Product})
	}
	return Table{Title: "User", Headers: []string{"Field", "Value"}, Rows: rows, Source: u}
}

// TokenStatus is the JSON shape of [Token]. The access token is masked.
type TokenStatus struct {
	Path         string     `json:"path"`
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	Scope        string     `json:"scope"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Expired      bool       `json:"expired"`
	RefreshToken bool       `json:"has_refresh_token"`
}

// Token describes a cached token without revealing its secrets.
func Token(tok *auth.Token, path string) Table {
	status := TokenStatus{
		Path:         path,
		AccessToken:  shared.MaskSecret(tok.AccessToken),
		TokenType:    tok.TokenType,
		Scope:        string(tok.Scope),
		Expired:      tok.IsExpired(),
		RefreshToken: tok.RefreshToken != "",
	}
	expires := "unknown"
	if !tok.ExpiresAt.IsZero() {
		at := tok.ExpiresAt
		status.ExpiresAt = &at
		expires = at.Local().Format(time.RFC3339)
	}

	state := "valid"
	if status.Expired {
		state = "expired"
	}

	return Table{
		Title:   "Token",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Cache", path},
			{"Access Token", status.AccessToken},
			{"Type", status.TokenType},
			{"Scope", status.Scope},
			{"Expires", expires},
			{"State", state},
			{"Refreshable", strconv.FormatBool(status.RefreshToken)},
		},
		Source: status,
	}
}

func artists(list []spotify.SimplifiedArtist) string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func visibility(public *bool) string {
	switch {
	case public == nil:
		return "Unknown"
	case *public:
		return "Public"
	default:
		return "Private"
	}
}
