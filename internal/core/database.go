// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/Taslimapopi/lifelog-server/internal/config"
)

const (
	CollectionUsers    = "users"
	CollectionLessons  = "lessons"
	CollectionReports  = "lessonReports"
	CollectionComments = "lessonComments"
	CollectionPayments = "payments"
)

type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewDatabase(
	ctx context.Context,
	cfg config.MongoConfig,
	tracing bool,
) (*Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(false).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.ConnectionURI()).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	if tracing {
		opts.SetMonitor(otelmongo.NewMonitor())
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx) //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Database{
		Client: client,
		DB:     client.Database(cfg.Database),
	}, nil
}

func (d *Database) Close(ctx context.Context) error {
	if d.Client != nil {
		return d.Client.Disconnect(ctx)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.Client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// DBStats is the subset of the dbStats command the admin surface reports.
type DBStats struct {
	Database    string  `bson:"db"          json:"db"`
	Collections int64   `bson:"collections" json:"collections"`
	Objects     int64   `bson:"objects"     json:"objects"`
	DataSize    float64 `bson:"dataSize"    json:"data_size_bytes"`
	StorageSize float64 `bson:"storageSize" json:"storage_size_bytes"`
	Indexes     int64   `bson:"indexes"     json:"indexes"`
	IndexSize   float64 `bson:"indexSize"   json:"index_size_bytes"`
}

func (d *Database) Stats(ctx context.Context) (*DBStats, error) {
	var stats DBStats
	err := d.DB.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}}).
		Decode(&stats)
	if err != nil {
		return nil, fmt.Errorf("db stats: %w", err)
	}
	return &stats, nil
}

// IndexedCollection is implemented by repositories that own indexes.
type IndexedCollection interface {
	EnsureIndexes(ctx context.Context) error
}

func EnsureIndexes(ctx context.Context, collections ...IndexedCollection) error {
	for _, c := range collections {
		if err := c.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// NotFoundOr converts mongo.ErrNoDocuments into ErrNotFound and wraps
// everything with op.
func NotFoundOr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}
