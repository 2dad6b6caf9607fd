package command

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/pkg"
	"yatube/internal/router"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg
		gin.SetMode(gin.ReleaseMode)

		st, err := openStores(cfg)
		if err != nil {
			return err
		}
		tokens, closeTokens, err := openTokenStore(cfg.Redis)
		if err != nil {
			_ = st.Close()
			return err
		}
		events, closeEvents, err := openEvents(cfg.Kafka)
		if err != nil {
			_ = closeAll(closeTokens, st.Close)
			return err
		}
		defer func() {
			if err := closeAll(closeEvents, closeTokens, st.Close); err != nil {
				log.Error().Err(err).Msg("shutdown cleanup failed")
			}
		}()

		if err := seedGroups(cmd.Context(), service.NewGroupService(st.groups), cfg.Groups); err != nil {
			return err
		}

		issuer := pkg.NewTokenIssuer(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret)
		svc := router.Services{
			Posts: service.NewPostService(st.posts, st.groups, st.users, events, service.PostOptions{
				PostsPerPage:        cfg.Pagination.PostsPerPage,
				ProfilePostsPerPage: cfg.Pagination.ProfilePostsPerPage,
			}),
			Users: service.NewUserService(st.users, tokens, issuer, openMailer(cfg.SMTP)),
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router.InitRouter(svc, log.Logger),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("server started")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
