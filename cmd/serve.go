package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/shpaw415/frame-master-sub000/internal/server"
	"github.com/shpaw415/frame-master-sub000/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server with hot reload",
	Long: `Serve transformed resources over HTTP. File changes under the
watched paths start a new registry generation (plugins re-captured, dispatch
entries rebuilt) and notify connected browsers over the websocket.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Server port (overrides config)")
	serveCmd.Flags().String("host", "", "Server host (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		sess.cfg.Server.Port = port
	}
	if hostFlag, _ := cmd.Flags().GetString("host"); hostFlag != "" {
		sess.cfg.Server.Host = hostFlag
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	srv := server.New(sess.cfg, sess.bundler, sess.logger)

	fw, err := watcher.NewFileWatcher(time.Duration(sess.cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Stop() }()

	for _, path := range sess.cfg.Watch.Paths {
		if err := fw.AddRecursive(path); err != nil {
			sess.logger.Warn(ctx, err, "failed to watch path", "path", path)
		}
	}
	if len(sess.cfg.Watch.Ignore) > 0 {
		fw.AddFilter(watcher.IgnoreFilter(sess.cfg.Watch.Ignore))
	}

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		sess.logger.Info(ctx, "files changed, rebuilding", "count", len(events))
		if err := sess.rebuild(); err != nil {
			sess.logger.Error(ctx, err, "rebuild failed")
			return err
		}
		srv.Errors().Clear()
		srv.NotifyReload(ctx)
		return nil
	})
	fw.Start(ctx)

	if err := sess.bundler.RunStarts(ctx); err != nil {
		return err
	}
	return srv.Start(ctx)
}
