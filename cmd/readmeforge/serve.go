package main

import (
	"fmt"

	"github.com/spf13/cobra"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/cache"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/server"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/store"
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr     string
	workers  int
	document documentFlags
	pdf      pdfFlags
}

func newServeCmd(env *Environment) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Long: `Serve preview and download endpoints under /api/convert and the
per-owner history under /api/documents. The owner is read from the
trusted header named by server.identityHeader.

History is stored in postgres when storage.dsn is set, falling back to
sqlite when postgres is unreachable. Previews are cached in redis when
cache.redisAddr is set, in memory otherwise.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, env, &f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.addr, "addr", "", "listen address (default from server.addr)")
	fs.IntVarP(&f.workers, "workers", "w", 0, fmt.Sprintf("concurrent conversions, 0 means auto (max %d)", readmeforge.MaxPoolSize))
	addDocumentFlags(fs, &f.document)
	addPDFFlags(fs, &f.pdf)

	return cmd
}

func runServe(cmd *cobra.Command, env *Environment, f *serveFlags) error {
	ctx := cmd.Context()

	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	cfg := cloneConfig(env.Config)
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	applyDocumentFlags(cmd.Flags(), &f.document, cfg)
	applyPDFFlags(cmd.Flags(), &f.pdf, cfg)
	opts, err := converterOptions(cfg, env)
	if err != nil {
		return err
	}

	pool := readmeforge.NewConverterPool(readmeforge.ResolvePoolSize(f.workers), opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			env.Logger.Warn("closing converter pool", "error", err)
		}
	}()
	conv, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(conv)

	st, err := store.Open(ctx, cfg.Storage, env.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	c := cache.Open(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.CacheTTL(), env.Logger)
	defer c.Close()

	srv := server.New(server.Options{
		Config:         cfg.Server,
		DefaultPalette: cfg.Document.Palette,
		Pool:           pool,
		Store:          st,
		Cache:          c,
		Logger:         env.Logger,
		Version:        Version,
	})

	env.Logger.Info("starting readmeforge",
		"version", Version,
		"addr", cfg.Server.Addr,
		"workers", pool.Size(),
		"storage", cfg.Storage.Driver,
		"pdf_engine", conv.PDFEngine())

	return srv.ListenAndServe(ctx)
}
