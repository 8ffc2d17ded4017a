package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kyle-williams-1/likeql"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type searchOptions struct {
	sqlitePath string
	table      string
	mongoURI   string
	database   string
	collection string
	limit      int64
}

func newSearchCommand(opts *options) *cobra.Command {
	so := &searchOptions{}

	searchCmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Run a query against a SQLite table or a MongoDB collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.newParser()
			if err != nil {
				return err
			}
			query, err := readQuery(cmd, args)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			if so.sqlitePath != "" {
				return searchSQLite(ctx, cmd, opts.logger, parser, query, so)
			}
			return searchMongo(ctx, cmd, opts.logger, parser, query, so)
		},
	}

	flags := searchCmd.Flags()
	flags.StringVar(&so.sqlitePath, "sqlite", "", "SQLite database file")
	flags.StringVar(&so.table, "table", "", "SQLite table to search")
	flags.StringVar(&so.mongoURI, "mongo-uri", "", "MongoDB connection string")
	flags.StringVar(&so.database, "db", "", "MongoDB database")
	flags.StringVar(&so.collection, "collection", "", "MongoDB collection to search")
	flags.Int64Var(&so.limit, "limit", 0, "Maximum number of matches to print, 0 for all")
	searchCmd.MarkFlagsOneRequired("sqlite", "mongo-uri")
	searchCmd.MarkFlagsMutuallyExclusive("sqlite", "mongo-uri")
	searchCmd.MarkFlagsRequiredTogether("sqlite", "table")
	searchCmd.MarkFlagsRequiredTogether("mongo-uri", "db", "collection")
	return searchCmd
}

func searchSQLite(ctx context.Context, cmd *cobra.Command, logger *zap.Logger, parser *likeql.Parser, query string, so *searchOptions) error {
	if !identPattern.MatchString(so.table) {
		return fmt.Errorf("invalid table name %q", so.table)
	}
	if !identPattern.MatchString(parser.Field()) {
		return fmt.Errorf("invalid column name %q", parser.Field())
	}

	filter, err := parser.Evaluate(query)
	if err != nil {
		return reportQueryError(cmd, query, err)
	}

	db, err := sql.Open("sqlite3", so.sqlitePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	stmt := fmt.Sprintf("select * from %s where %s", so.table, filter)
	if so.limit > 0 {
		stmt += fmt.Sprintf(" limit %d", so.limit)
	}
	logger.Debug("running query", zap.String("sql", stmt))

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}
	values := make([]interface{}, len(columns))
	valuePtrs := make([]interface{}, len(columns))
	for i := range columns {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		doc := bson.D{}
		for i, column := range columns {
			value := values[i]
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}
			doc = append(doc, bson.E{Key: column, Value: value})
		}
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			return err
		}
	}
	return rows.Err()
}

func searchMongo(ctx context.Context, cmd *cobra.Command, logger *zap.Logger, parser *likeql.Parser, query string, so *searchOptions) error {
	filter, err := parser.EvaluateBSON(query)
	if err != nil {
		return reportQueryError(cmd, query, err)
	}

	client, err := connectMongo(ctx, logger, so.mongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	findOpts := mongooptions.Find()
	if so.limit > 0 {
		findOpts.SetLimit(so.limit)
	}
	cursor, err := client.Database(so.database).Collection(so.collection).Find(ctx, filter, findOpts)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// connectMongo connects and pings the server, retrying with exponential
// backoff until ctx expires.
func connectMongo(ctx context.Context, logger *zap.Logger, uri string) (*mongo.Client, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	var client *mongo.Client
	err := backoff.RetryNotify(func() error {
		c, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
		if err != nil {
			// invalid URI or options, retrying cannot help
			return backoff.Permanent(err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := c.Ping(pingCtx, nil); err != nil {
			_ = c.Disconnect(context.Background())
			return fmt.Errorf("ping failed: %w", err)
		}
		client = c
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Warn("MongoDB not reachable, retrying", zap.Duration("in", next), zap.Error(err))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client, nil
}

func printDocument(w io.Writer, doc bson.D) error {
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
