package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotkit/internal/auth"
	"github.com/desertthunder/spotkit/internal/shared"
	tu "github.com/desertthunder/spotkit/internal/testing"
	"github.com/desertthunder/spotkit/internal/transport"
)

const trackJSON = `{
	"album": {"album_type": "album", "artists": [{"id": "a1", "name": "Radiohead"}], "id": "alb1", "name": "OK Computer", "images": [{"url": "https://i.scdn.co/image/x", "width": 640, "height": 640}]},
	"artists": [{"id": "a1", "name": "Radiohead"}, {"id": "a2", "name": "Guest"}],
	"disc_number": 1,
	"duration_ms": 284000,
	"explicit": false,
	"external_ids": {"isrc": "GBAYE9700128"},
	"id": "t1",
	"name": "Paranoid Android",
	"popularity": 78,
	"preview_url": null,
	"track_number": 2,
	"uri": "spotify:track:t1"
}`

const recentJSON = `{
	"href": "https://api.spotify.com/v1/me/player/recently-played?limit=2",
	"items": [
		{"track": {"id": "t1", "name": "One"}, "played_at": "2016-12-13T20:44:04.589Z", "context": {"type": "album", "uri": "spotify:album:x"}},
		{"track": {"id": "t2", "name": "Two"}, "played_at": "2016-12-13T20:42:17Z", "context": null}
	],
	"limit": 2,
	"next": "https://api.spotify.com/v1/me/player/recently-played?before=1481661737016&limit=2",
	"cursors": {"after": "1481661844589", "before": "1481661737016"}
}`

func newMockClient(body string) (*Client, *tu.MockHTTPClient) {
	mock := tu.NewMockHTTPClient(body)
	return NewClient(mock, "", nil), mock
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Track", func(t *testing.T) {
		c, mock := newMockClient(trackJSON)

		track, err := c.Track(ctx, "t1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Name != "Paranoid Android" || track.Album.Name != "OK Computer" {
			t.Errorf("unexpected track %+v", track)
		}
		if track.ArtistNames() != "Radiohead, Guest" {
			t.Errorf("unexpected artists %q", track.ArtistNames())
		}
		if track.PreviewURL != nil {
			t.Errorf("expected nil preview url, got %v", *track.PreviewURL)
		}
		if track.Album.Images[0].Width == nil || *track.Album.Images[0].Width != 640 {
			t.Error("expected image width 640")
		}

		call := mock.LastCall(t)
		if call.Method != http.MethodGet || call.URL != APIURL+"/tracks/t1" {
			t.Errorf("unexpected call %s %s", call.Method, call.URL)
		}
	})

	t.Run("Tracks", func(t *testing.T) {
		c, mock := newMockClient(`{"tracks": [` + trackJSON + `, null]}`)

		tracks, err := c.Tracks(ctx, []string{"t1", "t2"}, "GB")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(tracks))
		}
		call := mock.LastCall(t)
		if call.Params["ids"] != "t1,t2" || call.Params["market"] != "GB" {
			t.Errorf("unexpected params %v", call.Params)
		}
	})

	t.Run("Tracks validates IDs", func(t *testing.T) {
		c, mock := newMockClient("{}")

		if _, err := c.Tracks(ctx, nil, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, err := c.Tracks(ctx, make([]string, 51), ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := c.Albums(ctx, make([]string, 21)); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if n := len(mock.Calls()); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})

	t.Run("Artist endpoints", func(t *testing.T) {
		c, mock := newMockClient(`{"artists": [{"id": "a1", "name": "Radiohead", "genres": ["art rock"], "followers": {"href": null, "total": 9}}]}`)

		artists, err := c.Artists(ctx, []string{"a1"})
		if err != nil || len(artists) != 1 || artists[0].Followers.Total != 9 {
			t.Fatalf("unexpected artists %+v (%v)", artists, err)
		}

		if _, err := c.RelatedArtists(ctx, "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if call := mock.LastCall(t); call.URL != APIURL+"/artists/a1/related-artists" {
			t.Errorf("unexpected url %s", call.URL)
		}
	})

	t.Run("ArtistAlbums", func(t *testing.T) {
		c, mock := newMockClient(`{"href": "h", "items": [{"id": "alb1", "album_type": "single"}], "limit": 5, "next": null, "offset": 10, "previous": null, "total": 11}`)

		page, err := c.ArtistAlbums(ctx, "a1", AlbumsOpts{
			Groups: []AlbumType{AlbumTypeAlbum, AlbumTypeAppearsOn},
			Market: "US",
			Limit:  5,
			Offset: 10,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Items[0].AlbumType != AlbumTypeSingle || page.Total != 11 {
			t.Errorf("unexpected page %+v", page)
		}

		call := mock.LastCall(t)
		want := map[string]string{"include_groups": "album,appears_on", "market": "US", "limit": "5", "offset": "10"}
		for k, v := range want {
			if call.Params[k] != v {
				t.Errorf("expected %s=%s, got %q", k, v, call.Params[k])
			}
		}
	})

	t.Run("ArtistAlbums omits unset options", func(t *testing.T) {
		c, mock := newMockClient(`{"items": []}`)
		_, _ = c.ArtistAlbums(ctx, "a1", AlbumsOpts{})
		if p := mock.LastCall(t).Params; len(p) != 0 {
			t.Errorf("expected no params, got %v", p)
		}
	})

	t.Run("ArtistTopTracks", func(t *testing.T) {
		c, mock := newMockClient(`{"tracks": [` + trackJSON + `]}`)

		tracks, err := c.ArtistTopTracks(ctx, "a1", "SE")
		if err != nil || len(tracks) != 1 {
			t.Fatalf("unexpected tracks %+v (%v)", tracks, err)
		}
		if call := mock.LastCall(t); call.Params["country"] != "SE" || call.URL != APIURL+"/artists/a1/top-tracks" {
			t.Errorf("unexpected call %+v", call)
		}
		if _, err := c.ArtistTopTracks(ctx, "a1", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("AlbumTracks defaults", func(t *testing.T) {
		c, mock := newMockClient(`{"items": [{"id": "t1", "track_number": 1}], "total": 1}`)

		page, err := c.AlbumTracks(ctx, "alb1", 0, 0)
		if err != nil || page.Items[0].TrackNumber != 1 {
			t.Fatalf("unexpected page %+v (%v)", page, err)
		}
		call := mock.LastCall(t)
		if call.Params["limit"] != "50" || call.Params["offset"] != "0" {
			t.Errorf("unexpected params %v", call.Params)
		}
	})

	t.Run("Album", func(t *testing.T) {
		c, _ := newMockClient(`{"id": "alb1", "name": "OK Computer", "album_type": "album", "artists": [{"name": "Radiohead"}], "copyrights": [{"text": "(C) 1997", "type": "C"}], "tracks": {"items": [{"id": "t1"}], "total": 12}}`)

		album, err := c.Album(ctx, "alb1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.Tracks.Total != 12 || album.Copyrights[0].Type != "C" || album.ArtistNames() != "Radiohead" {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("Users", func(t *testing.T) {
		c, mock := newMockClient(`{"id": "wizzler", "display_name": null, "email": "w@example.com", "product": "premium"}`)

		me, err := c.CurrentUser(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if me.Name() != "wizzler" || me.Email != "w@example.com" || me.Product != "premium" {
			t.Errorf("unexpected user %+v", me)
		}
		if call := mock.LastCall(t); call.URL != APIURL+"/me" {
			t.Errorf("unexpected url %s", call.URL)
		}

		if _, err := c.User(ctx, "some user"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if call := mock.LastCall(t); call.URL != APIURL+"/users/some%20user" {
			t.Errorf("expected escaped id, got %s", call.URL)
		}
	})

	t.Run("CurrentUserRecentlyPlayed", func(t *testing.T) {
		c, mock := newMockClient(recentJSON)

		page, err := c.CurrentUserRecentlyPlayed(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 2 || page.Total != nil {
			t.Fatalf("unexpected page %+v", page)
		}

		first := page.Items[0]
		if !first.PlayedAt.Equal(time.Date(2016, 12, 13, 20, 44, 4, 589_000_000, time.UTC)) {
			t.Errorf("unexpected played_at %v", first.PlayedAt)
		}
		if first.Context == nil || first.Context.Type != "album" {
			t.Errorf("unexpected context %+v", first.Context)
		}
		if !page.Items[1].PlayedAt.Equal(time.Date(2016, 12, 13, 20, 42, 17, 0, time.UTC)) {
			t.Errorf("expected timestamp without fraction to parse, got %v", page.Items[1].PlayedAt)
		}
		if *page.Cursors.Before != "1481661737016" {
			t.Errorf("unexpected cursors %+v", page.Cursors)
		}
		if mock.LastCall(t).Params["limit"] != "2" {
			t.Errorf("unexpected params %v", mock.LastCall(t).Params)
		}
	})

	t.Run("NextPage", func(t *testing.T) {
		c, mock := newMockClient(recentJSON)

		page, err := c.CurrentUserRecentlyPlayed(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := NextPage(ctx, c, page); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if call := mock.LastCall(t); call.URL != *page.Next || call.Params != nil {
			t.Errorf("expected next link to be fetched as is, got %+v", call)
		}

		page.Next = nil
		if _, err := NextPage(ctx, c, page); !errors.Is(err, shared.ErrNoPagesLeft) {
			t.Errorf("expected ErrNoPagesLeft, got %v", err)
		}
	})

	t.Run("NextOffsetPage", func(t *testing.T) {
		next := "https://api.spotify.com/v1/albums/alb1/tracks?offset=50&limit=50"
		c, mock := newMockClient(`{"items": [], "offset": 50}`)

		page, err := NextOffsetPage(ctx, c, &Page[SimplifiedTrack]{Next: &next})
		if err != nil || page.Offset != 50 {
			t.Fatalf("unexpected page %+v (%v)", page, err)
		}
		if mock.LastCall(t).URL != next {
			t.Errorf("unexpected url %s", mock.LastCall(t).URL)
		}

		if _, err := NextOffsetPage(ctx, c, &Page[SimplifiedTrack]{}); !errors.Is(err, shared.ErrNoPagesLeft) {
			t.Errorf("expected ErrNoPagesLeft, got %v", err)
		}
	})

	t.Run("Response errors", func(t *testing.T) {
		netErr := errors.New("timeout")
		tc := []struct {
			name    string
			mock    *tu.MockHTTPClient
			wantErr error
		}{
			{"transport", &tu.MockHTTPClient{Err: netErr}, netErr},
			{"nil response", &tu.MockHTTPClient{}, shared.ErrNilResponse},
			{"not found", &tu.MockHTTPClient{Response: &transport.Response{StatusCode: 404, Body: []byte(`{"error":{"status":404}}`)}}, shared.ErrInvalidResponse},
			{"nil body", &tu.MockHTTPClient{Response: &transport.Response{StatusCode: 200}}, shared.ErrNilBody},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewClient(tt.mock, "", nil).Artist(ctx, "a1")
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}

		t.Run("bad json", func(t *testing.T) {
			c, _ := newMockClient(`{"id": 5}`)
			if _, err := c.Artist(ctx, "a1"); err == nil || !strings.Contains(err.Error(), "decode") {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		c, mock := newMockClient(`{"tracks": {"items": [` + trackJSON + `], "total": 1}}`)

		page, err := c.SearchTrack(ctx, "paranoid android", SearchOpts{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "t1" {
			t.Errorf("unexpected page %+v", page)
		}

		call := mock.LastCall(t)
		want := map[string]string{"q": "paranoid android", "type": "track", "limit": "10", "offset": "0"}
		for k, v := range want {
			if call.Params[k] != v {
				t.Errorf("expected %s=%s, got %q", k, v, call.Params[k])
			}
		}
		if _, ok := call.Params["market"]; ok {
			t.Error("expected no market")
		}
	})

	t.Run("Options are forwarded", func(t *testing.T) {
		c, mock := newMockClient(`{"playlists": {"items": [{"id": "p1", "public": null, "owner": {"id": "o"}}]}}`)

		page, err := c.SearchPlaylist(ctx, "focus", SearchOpts{Limit: 3, Offset: 6, Market: "DE"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Items[0].Public != nil || page.Items[0].Owner.ID != "o" {
			t.Errorf("unexpected playlist %+v", page.Items[0])
		}
		call := mock.LastCall(t)
		if call.Params["limit"] != "3" || call.Params["offset"] != "6" || call.Params["market"] != "DE" || call.Params["type"] != "playlist" {
			t.Errorf("unexpected params %v", call.Params)
		}
	})

	t.Run("Album and artist", func(t *testing.T) {
		c, mock := newMockClient(`{"albums": {"items": [{"id": "alb1"}]}, "artists": {"items": [{"id": "a1"}]}}`)

		albums, err := c.SearchAlbum(ctx, "ok computer", SearchOpts{})
		if err != nil || albums.Items[0].ID != "alb1" {
			t.Errorf("unexpected albums %+v (%v)", albums, err)
		}
		artists, err := c.SearchArtist(ctx, "radiohead", SearchOpts{})
		if err != nil || artists.Items[0].ID != "a1" {
			t.Errorf("unexpected artists %+v (%v)", artists, err)
		}
		if mock.LastCall(t).Params["type"] != "artist" {
			t.Errorf("unexpected type %s", mock.LastCall(t).Params["type"])
		}
	})

	t.Run("Empty query", func(t *testing.T) {
		c, _ := newMockClient("{}")
		if _, err := c.SearchArtist(ctx, "  ", SearchOpts{}); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestAuthorizedRequests(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer: T0K" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v1/tracks/t1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trackJSON))
	}))
	defer srv.Close()

	inner := transport.NewClient(srv.Client(), nil)

	t.Run("Valid token", func(t *testing.T) {
		src := auth.NewFixedToken(auth.Token{AccessToken: "T0K", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)})
		c := NewClient(auth.NewAuthorizedClient(inner, src), srv.URL+"/v1/", nil)

		track, err := c.Track(ctx, "t1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.ID != "t1" {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("Expired token never reaches the server", func(t *testing.T) {
		src := auth.NewFixedToken(auth.Token{AccessToken: "T0K", TokenType: "Bearer", ExpiresAt: time.Now().Add(-time.Hour)})
		c := NewClient(auth.NewAuthorizedClient(inner, src), srv.URL+"/v1", nil)

		if _, err := c.Track(ctx, "t1"); !errors.Is(err, shared.ErrExpiredToken) {
			t.Errorf("expected ErrExpiredToken, got %v", err)
		}
	})
}

func TestParseAlbumType(t *testing.T) {
	for _, s := range []string{"album", "SINGLE", " appears_on ", "Compilation"} {
		if _, err := ParseAlbumType(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParseAlbumType("ep"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	tc := []struct {
		in   string
		want time.Time
	}{
		{"2016-12-13T20:44:04.589Z", time.Date(2016, 12, 13, 20, 44, 4, 589_000_000, time.UTC)},
		{"2016-12-13T20:44:04Z", time.Date(2016, 12, 13, 20, 44, 4, 0, time.UTC)},
		{"2016-12-13T20:44:04+0000", time.Date(2016, 12, 13, 20, 44, 4, 0, time.UTC)},
		{"2016-12-13T21:44:04.5+01:00", time.Date(2016, 12, 13, 20, 44, 4, 500_000_000, time.UTC)},
	}
	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for garbage")
	}
}
