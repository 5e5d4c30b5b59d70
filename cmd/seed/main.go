// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Taslimapopi/lifelog-server/internal/comment"
	"github.com/Taslimapopi/lifelog-server/internal/config"
	"github.com/Taslimapopi/lifelog-server/internal/core"
	"github.com/Taslimapopi/lifelog-server/internal/lesson"
	"github.com/Taslimapopi/lifelog-server/internal/user"
)

type options struct {
	configPath string
	users      int
	lessons    int
	comments   int
	seed       int64
	maxDays    int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	flag.IntVar(&opts.users, "users", 20, "users to create")
	flag.IntVar(&opts.lessons, "lessons", 5, "lessons per user")
	flag.IntVar(&opts.comments, "comments", 3, "max comments per lesson")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&opts.maxDays, "max-days", 90, "spread createdAt over this many days")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), opts); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Mongo, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	users := user.NewRepository(db.DB)
	lessons := lesson.NewRepository(db.DB)
	comments := comment.NewRepository(db.DB)

	if err := core.EnsureIndexes(ctx, users, lessons, comments); err != nil {
		return err
	}

	f := NewFactory(opts.seed, opts.maxDays)

	created := make([]*user.User, 0, opts.users)
	for i := range opts.users {
		role := user.RoleUser
		if i == 0 {
			role = user.RoleAdmin
		}

		u := f.User(role)
		id, err := users.Create(ctx, u)
		if errors.Is(err, core.ErrDuplicateKey) {
			continue
		}
		if err != nil {
			return err
		}
		u.ID = id
		created = append(created, u)
	}

	memberIDs := make([]string, 0, len(created))
	for _, u := range created {
		memberIDs = append(memberIDs, u.ID.Hex())
	}

	var lessonCount, commentCount int
	for _, author := range created {
		for range opts.lessons {
			l := f.Lesson(author, memberIDs)
			id, err := lessons.Create(ctx, l)
			if err != nil {
				return err
			}
			lessonCount++

			for range f.faker.Number(0, opts.comments) {
				by := created[f.faker.Number(0, len(created)-1)]
				if _, err := comments.Create(ctx, f.Comment(id.Hex(), by)); err != nil {
					return err
				}
				commentCount++
			}
		}
	}

	slog.Info("seed complete",
		"seed", opts.seed,
		"users", len(created),
		"lessons", lessonCount,
		"comments", commentCount,
	)
	return nil
}
