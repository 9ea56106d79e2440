package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/spotify"
	"github.com/urfave/cli/v3"
)

// ids returns the positional arguments, accepting "spotify:track:ID" URIs as well as bare IDs.
func ids(cmd *cli.Command) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one ID", shared.ErrMissingArgument)
	}

	out := make([]string, 0, len(args))
	for _, a := range args {
		if i := strings.LastIndex(a, ":"); i >= 0 {
			a = a[i+1:]
		}
		out = append(out, a)
	}
	return out, nil
}

func firstID(cmd *cli.Command) (string, error) {
	list, err := ids(cmd)
	if err != nil {
		return "", err
	}
	return list[0], nil
}

// Tracks looks up tracks by ID.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	list, err := ids(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	tracks, err := client.Tracks(ctx, list, cmd.String("market"))
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Tracks("Tracks", tracks))
}

// Artists looks up artists by ID.
func (r *Runner) Artists(ctx context.Context, cmd *cli.Command) error {
	list, err := ids(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	artists, err := client.Artists(ctx, list)
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Artists("Artists", artists))
}

// ArtistAlbums lists one page of an artist's albums.
func (r *Runner) ArtistAlbums(ctx context.Context, cmd *cli.Command) error {
	id, err := firstID(cmd)
	if err != nil {
		return err
	}

	opts := spotify.AlbumsOpts{
		Market: cmd.String("market"),
		Limit:  cmd.Int("limit"),
		Offset: cmd.Int("offset"),
	}
	for _, g := range cmd.StringSlice("group") {
		at, err := spotify.ParseAlbumType(g)
		if err != nil {
			return err
		}
		opts.Groups = append(opts.Groups, at)
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	page, err := client.ArtistAlbums(ctx, id, opts)
	if err != nil {
		return err
	}

	r.logger.Debug("artist albums", "id", id, "total", page.Total, "offset", page.Offset)
	return r.writeTable(cmd, formatter.Albums(fmt.Sprintf("Albums (%d of %d)", len(page.Items), page.Total), page.Items))
}

// ArtistTopTracks lists an artist's most popular tracks in a country.
func (r *Runner) ArtistTopTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := firstID(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	tracks, err := client.ArtistTopTracks(ctx, id, cmd.String("country"))
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Tracks("Top Tracks", tracks))
}

// RelatedArtists lists artists similar to the given one.
func (r *Runner) RelatedArtists(ctx context.Context, cmd *cli.Command) error {
	id, err := firstID(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	artists, err := client.RelatedArtists(ctx, id)
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.Artists("Related Artists", artists))
}

// Albums shows a single album with its tracks, or a summary table for several.
func (r *Runner) Albums(ctx context.Context, cmd *cli.Command) error {
	list, err := ids(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	if len(list) == 1 {
		album, err := client.Album(ctx, list[0])
		if err != nil {
			return err
		}
		return r.writeTable(cmd, formatter.Album(album))
	}

	albums, err := client.Albums(ctx, list)
	if err != nil {
		return err
	}

	simplified := make([]spotify.SimplifiedAlbum, 0, len(albums))
	for _, a := range albums {
		simplified = append(simplified, spotify.SimplifiedAlbum{
			AlbumType:   a.AlbumType,
			Artists:     a.Artists,
			ID:          a.ID,
			Name:        a.Name,
			ReleaseDate: a.ReleaseDate,
		})
	}
	t := formatter.Albums("Albums", simplified)
	t.Source = albums
	return r.writeTable(cmd, t)
}

// AlbumTracks lists an album's tracks, following pagination with --all.
func (r *Runner) AlbumTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := firstID(cmd)
	if err != nil {
		return err
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	page, err := client.AlbumTracks(ctx, id, cmd.Int("limit"), cmd.Int("offset"))
	if err != nil {
		return err
	}

	tracks := page.Items
	for cmd.Bool("all") {
		page, err = spotify.NextOffsetPage(ctx, client, page)
		if errors.Is(err, shared.ErrNoPagesLeft) {
			break
		}
		if err != nil {
			return err
		}
		tracks = append(tracks, page.Items...)
	}
	return r.writeTable(cmd, formatter.AlbumTracks("Album Tracks", tracks))
}

// Search queries the catalog for one item type.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	opts := spotify.SearchOpts{
		Limit:  cmd.Int("limit"),
		Offset: cmd.Int("offset"),
		Market: cmd.String("market"),
	}
	kind := spotify.SearchType(strings.ToLower(cmd.String("type")))
	title := fmt.Sprintf("Search: %s", query)

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	switch kind {
	case spotify.SearchTypeTrack:
		page, err := client.SearchTrack(ctx, query, opts)
		if err != nil {
			return err
		}
		return r.writeTable(cmd, formatter.Tracks(title, page.Items))
	case spotify.SearchTypeArtist:
		page, err := client.SearchArtist(ctx, query, opts)
		if err != nil {
			return err
		}
		return r.writeTable(cmd, formatter.Artists(title, page.Items))
	case spotify.SearchTypeAlbum:
		page, err := client.SearchAlbum(ctx, query, opts)
		if err != nil {
			return err
		}
		return r.writeTable(cmd, formatter.Albums(title, page.Items))
	case spotify.SearchTypePlaylist:
		page, err := client.SearchPlaylist(ctx, query, opts)
		if err != nil {
			return err
		}
		return r.writeTable(cmd, formatter.Playlists(title, page.Items))
	default:
		return fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidArgument, kind)
	}
}

// User shows a public profile.
func (r *Runner) User(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user ID", shared.ErrMissingArgument)
	}

	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	user, err := client.User(ctx, id)
	if err != nil {
		return err
	}
	t := formatter.User(&spotify.PrivateUser{PublicUser: *user})
	t.Source = user
	return r.writeTable(cmd, t)
}

// Me shows the profile of the user who authorized the cached token.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return r.writeTable(cmd, formatter.User(user))
}

// RecentlyPlayed lists play history, following up to --pages cursor pages.
func (r *Runner) RecentlyPlayed(ctx context.Context, cmd *cli.Command) error {
	client, release, err := r.api(ctx, cmd)
	if err != nil {
		return err
	}
	defer release()

	page, err := client.CurrentUserRecentlyPlayed(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	items := page.Items
	for i := 1; i < cmd.Int("pages"); i++ {
		page, err = spotify.NextPage(ctx, client, page)
		if errors.Is(err, shared.ErrNoPagesLeft) {
			break
		}
		if err != nil {
			return err
		}
		items = append(items, page.Items...)
	}
	return r.writeTable(cmd, formatter.RecentlyPlayed(items))
}
