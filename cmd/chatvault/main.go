// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/chatvault/chats"
	"github.com/poiesic/chatvault/identity"
	"github.com/poiesic/chatvault/store"
	storebadger "github.com/poiesic/chatvault/store/badger"
	storeredis "github.com/poiesic/chatvault/store/redis"
)

// storeFlags select the backing store; exactly one of --db or --redis
// must be given.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to embedded BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address (host:port)",
		},
		&cli.StringFlag{
			Name:  "redis-password",
			Usage: "Redis password",
		},
	}
}

func identityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Act as this user id",
		},
		&cli.BoolFlag{
			Name:  "anonymous",
			Usage: "Act as the anonymous user",
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "chatvault",
		Usage: "Inspect and maintain persisted chat transcripts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List a user's chats, most recent first",
				Action: listCommand,
				Flags:  append(storeFlags(), identityFlags()...),
			},
			{
				Name:      "show",
				Usage:     "Print a chat transcript",
				ArgsUsage: "<chat-id>",
				Action:    showCommand,
				Flags:     append(storeFlags(), identityFlags()...),
			},
			{
				Name:      "export",
				Usage:     "Export a chat as JSON",
				ArgsUsage: "<chat-id>",
				Action:    exportCommand,
				Flags: append(append(storeFlags(), identityFlags()...),
					&cli.BoolFlag{
						Name:  "shared",
						Usage: "Fetch through the public share path instead of as the owner",
					},
				),
			},
			{
				Name:      "clear",
				Usage:     "Delete one chat, or all of a user's chats",
				ArgsUsage: "[chat-id]",
				Action:    clearCommand,
				Flags: append(append(storeFlags(), identityFlags()...),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every chat owned by the user",
					},
				),
			},
			{
				Name:      "share",
				Usage:     "Mark a chat as publicly shared and print its share path",
				ArgsUsage: "<chat-id>",
				Action:    shareCommand,
				Flags:     append(storeFlags(), identityFlags()...),
			},
			{
				Name:   "adopt",
				Usage:  "Move anonymous chats under the given user",
				Action: adoptCommand,
				Flags:  append(storeFlags(), identityFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openStore(c *cli.Context) (store.Client, error) {
	addr := c.String("redis")
	dbPath := c.String("db")

	switch {
	case addr != "" && dbPath != "":
		return nil, fmt.Errorf("--db and --redis are mutually exclusive")
	case addr != "":
		cfg := storeredis.NewConfig(
			storeredis.WithAddr(addr),
			storeredis.WithPassword(c.String("redis-password")),
		)
		return storeredis.NewClient(cfg)
	case dbPath != "":
		return storebadger.Open(dbPath)
	default:
		return nil, fmt.Errorf("either --db or --redis is required")
	}
}

func resolveIdentity(c *cli.Context) (identity.Resolver, error) {
	user := c.String("user")
	anon := c.Bool("anonymous")

	switch {
	case user != "" && anon:
		return nil, fmt.Errorf("--user and --anonymous are mutually exclusive")
	case user != "":
		return identity.NewStatic(user), nil
	case anon:
		return identity.NewStaticAnonymous(), nil
	default:
		return nil, fmt.Errorf("either --user or --anonymous is required")
	}
}

// openRepository wires the store and identity flags into a repository.
// The returned cleanup closes both.
func openRepository(c *cli.Context) (*chats.Repository, func(), error) {
	client, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}

	resolver, err := resolveIdentity(c)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	repo, err := chats.NewRepository(client, resolver)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	cleanup := func() {
		repo.Close()
		client.Close()
	}
	return repo, cleanup, nil
}

func requireChatID(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("chat id argument is required")
	}
	return id, nil
}

func listCommand(c *cli.Context) error {
	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	list := repo.GetChats(ctx)
	if len(list) == 0 {
		fmt.Println("No chats found.")
		return nil
	}

	for _, chat := range list {
		shared := ""
		if chat.Shared() {
			shared = " (shared)"
		}
		fmt.Printf("%s  %s  %4d messages  %s%s\n",
			chat.ID,
			chat.CreatedAt.Format("2006-01-02 15:04"),
			len(chat.Messages),
			chat.Title,
			shared,
		)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	id, err := requireChatID(c)
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	chat, err := repo.GetChat(context.Background(), id)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s not found", id)
	}

	fmt.Printf("Title:   %s\n", chat.Title)
	fmt.Printf("Created: %s\n", chat.CreatedAt.Format("2006-01-02 15:04:05"))
	if chat.Shared() {
		fmt.Printf("Shared:  %s\n", chat.SharePath)
	}
	fmt.Println()
	for _, msg := range chat.Messages {
		fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	id, err := requireChatID(c)
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	var chat any
	if c.Bool("shared") {
		got, err := repo.GetSharedChat(ctx, id)
		if err != nil {
			return err
		}
		if got == nil {
			return fmt.Errorf("chat %s is not shared", id)
		}
		chat = got
	} else {
		got, err := repo.GetChat(ctx, id)
		if err != nil {
			return err
		}
		if got == nil {
			return fmt.Errorf("chat %s not found", id)
		}
		chat = got
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(chat)
}

func clearCommand(c *cli.Context) error {
	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if c.Bool("all") {
		if c.Args().Present() {
			return fmt.Errorf("--all does not take a chat id")
		}
		if err := repo.ClearChats(ctx); err != nil {
			return err
		}
		fmt.Println("All chats cleared.")
		return nil
	}

	id, err := requireChatID(c)
	if err != nil {
		return err
	}
	if err := repo.ClearChat(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Chat %s cleared.\n", id)
	return nil
}

func shareCommand(c *cli.Context) error {
	id, err := requireChatID(c)
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	chat, err := repo.ShareChat(context.Background(), id)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat %s not found", id)
	}

	fmt.Println(chat.SharePath)
	return nil
}

func adoptCommand(c *cli.Context) error {
	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	adopted, err := repo.AdoptAnonymousChats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Adopted %d chats.\n", adopted)
	return nil
}
