// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, markdown, csv, json)",
		Value:   string(formatter.FormatText),
		Validator: func(s string) error {
			_, err := formatter.ParseFormat(s)
			return err
		},
	}
}

func clientCredentialsFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "client-credentials",
		Usage: "Authenticate as the application instead of using the cached user token",
	}
}

func marketFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "market",
		Aliases: []string{"m"},
		Usage:   "ISO 3166-1 alpha-2 country code used for track relinking",
	}
}

// lookupFlags are shared by commands that only read catalog data.
func lookupFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{formatFlag(), clientCredentialsFlag()}, extra...)
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and prepare the token cache",
		Action: r.Setup,
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize with Spotify and manage the cached token",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Reuse the cached token or run the authorization code flow",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "listen",
						Usage: "Receive the redirect on a local callback server instead of pasting it",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Ignore the cached token",
					},
					&cli.BoolFlag{
						Name:  "show-dialog",
						Usage: "Ask Spotify to show the consent dialog even if already approved",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL without opening a browser",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the redirect",
						Value: 5 * time.Minute,
					},
					formatFlag(),
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "url",
				Usage: "Print the authorization URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Usage: "State parameter; generated when empty and not configured",
					},
					&cli.BoolFlag{
						Name:  "show-dialog",
						Usage: "Ask Spotify to show the consent dialog even if already approved",
					},
				},
				Action: r.AuthURL,
			},
			{
				Name:      "code",
				Usage:     "Exchange a pasted redirect URL for a token and cache it",
				ArgsUsage: "REDIRECT_URL",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "url",
					},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.AuthCode,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "refresh",
				Usage:  "Refresh the cached token now",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.AuthRefresh,
			},
			{
				Name:   "client",
				Usage:  "Request an app-only token with the client credentials grant",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.AuthClient,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token",
				Action: r.AuthLogout,
			},
		},
	}
}

func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Aliases:   []string{"tracks"},
		Usage:     "Look up one or more tracks",
		ArgsUsage: "ID [ID...]",
		Flags:     lookupFlags(marketFlag()),
		Action:    r.Tracks,
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Artist lookups",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Look up one or more artists",
				ArgsUsage: "ID [ID...]",
				Flags:     lookupFlags(),
				Action:    r.Artists,
			},
			{
				Name:      "albums",
				Usage:     "List an artist's albums",
				ArgsUsage: "ID",
				Flags: lookupFlags(
					marketFlag(),
					&cli.StringSliceFlag{
						Name:  "group",
						Usage: "Album groups to include (album, single, appears_on, compilation)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of albums per page",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first album",
					},
				),
				Action: r.ArtistAlbums,
			},
			{
				Name:      "top",
				Usage:     "List an artist's top tracks",
				ArgsUsage: "ID",
				Flags: lookupFlags(
					&cli.StringFlag{
						Name:  "country",
						Usage: "ISO 3166-1 alpha-2 country code",
						Value: "US",
					},
				),
				Action: r.ArtistTopTracks,
			},
			{
				Name:      "related",
				Usage:     "List artists similar to an artist",
				ArgsUsage: "ID",
				Flags:     lookupFlags(),
				Action:    r.RelatedArtists,
			},
		},
	}
}

func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Album lookups",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Look up one or more albums",
				ArgsUsage: "ID [ID...]",
				Flags:     lookupFlags(),
				Action:    r.Albums,
			},
			{
				Name:      "tracks",
				Usage:     "List the tracks on an album",
				ArgsUsage: "ID",
				Flags: lookupFlags(
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks per page",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first track",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Follow pagination until every track is listed",
					},
				),
				Action: r.AlbumTracks,
			},
		},
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "QUERY",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: lookupFlags(
			marketFlag(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Item type (track, artist, album, playlist)",
				Value:   "track",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results",
				Value: 10,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Index of the first result",
			},
		),
		Action: r.Search,
	}
}

func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "user",
		Usage:     "Look up a user's public profile",
		ArgsUsage: "ID",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags:  lookupFlags(),
		Action: r.User,
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the authorized user's profile",
		Flags:  []cli.Flag{formatFlag()},
		Action: r.Me,
	}
}

func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently played tracks",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of items per page (1-50)",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to follow",
				Value: 1,
			},
		},
		Action: r.RecentlyPlayed,
	}
}
