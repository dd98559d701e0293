package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlab/refdag/internal/server"
	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		backend   string
		redisAddr string
		redisPass string
		redisDB   int
		mongoURI  string
		mongoDB   string
		renderTTL time.Duration
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve exposes graph analysis over HTTP: POST a graph declaration to
/graphs and get back the stored analysis; fetch DOT or SVG for any stored
graph. Records live in the chosen backend:

  memory   keep records in process memory (default; lost on exit)
  redis    share records between instances via Redis
  mongo    persist records durably in MongoDB`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				st  store.Store
				err error
			)
			switch backend {
			case "memory":
				st = store.NewMemory()
			case "redis":
				st, err = store.NewRedis(ctx, store.RedisConfig{
					Addr:     redisAddr,
					Password: redisPass,
					DB:       redisDB,
				})
			case "mongo":
				st, err = store.NewMongo(ctx, store.MongoConfig{
					URI:      mongoURI,
					Database: mongoDB,
				})
			default:
				return errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", backend)
			}
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			artifactCache, err := newCache(noCache)
			if err != nil {
				return err
			}
			defer artifactCache.Close()

			srv := server.New(server.Config{Addr: addr, RenderTTL: renderTTL}, st, artifactCache, c.Logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "memory", "record store backend: memory, redis, or mongo")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address (with --store redis)")
	cmd.Flags().StringVar(&redisPass, "redis-password", "", "redis password (with --store redis)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number (with --store redis)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection string (with --store mongo)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "refdag", "mongodb database name (with --store mongo)")
	cmd.Flags().DurationVar(&renderTTL, "render-ttl", 7*24*time.Hour, "how long rendered artifacts stay cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render artifact cache")
	return cmd
}
