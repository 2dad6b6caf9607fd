package command

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/config"
	"yatube/internal/pkg"
	"yatube/internal/repository/memory"
	mysqlrepo "yatube/internal/repository/mysql"
	redisrepo "yatube/internal/repository/redis"
	"yatube/internal/service"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// stores are the repositories behind the configured database driver.
type stores struct {
	db     *gorm.DB
	posts  service.PostRepository
	groups service.GroupRepository
	users  service.UserRepository
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn().Msg("using the in-memory store, nothing survives a restart")
		store := memory.NewStore()
		return &stores{posts: store.Posts, groups: store.Groups, users: store.Users}, nil
	}

	db, err := mysqlrepo.Open(cfg.Database.DSN, &log.Logger)
	if err != nil {
		return nil, err
	}
	return &stores{
		db:     db,
		posts:  &mysqlrepo.PostRepository{DB: db},
		groups: &mysqlrepo.GroupRepository{DB: db},
		users:  &mysqlrepo.UserRepository{DB: db},
	}, nil
}

func openTokenStore(cfg config.RedisConfig) (service.TokenStore, func() error, error) {
	if cfg.Addr == "" {
		log.Warn().Msg("redis not configured, sessions are kept in process")
		return memory.NewTokenStore(), func() error { return nil }, nil
	}
	client, err := redisrepo.Open(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return &redisrepo.TokenRepository{Client: client}, client.Close, nil
}

// openEvents returns a nil publisher when kafka is not configured.
func openEvents(cfg pkg.KafkaConfig) (*service.EventPublisher, func() error, error) {
	if !cfg.Enabled() {
		log.Info().Msg("kafka not configured, post events are not published")
		return nil, func() error { return nil }, nil
	}
	producer, err := pkg.NewKafkaProducer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return service.NewEventPublisher(producer), producer.Close, nil
}

func openMailer(cfg pkg.SMTPConfig) service.Mailer {
	if !cfg.Enabled() {
		log.Info().Msg("smtp not configured, welcome mail is disabled")
		return nil
	}
	return pkg.NewSMTPMailer(cfg)
}

func closeAll(closers ...func() error) error {
	var errs []error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var errMemoryDriver = errors.New("the memory driver only lives inside a running server; " +
	"declare groups under groups: in the config instead")

// requirePersistentStore stops one-shot commands from writing to a store
// that disappears when they exit.
func requirePersistentStore(cfg *config.Config) error {
	if cfg.Database.Driver == config.DriverMemory {
		return errMemoryDriver
	}
	return nil
}

// seedGroups creates the configured groups, skipping slugs that exist.
func seedGroups(ctx context.Context, svc *service.GroupService, seeds []config.GroupSeed) error {
	for _, g := range seeds {
		_, err := svc.Create(ctx, g.Title, g.Slug, g.Description)
		switch {
		case err == nil:
			log.Info().Str("slug", g.Slug).Msg("group seeded")
		case errors.Is(err, service.ErrAlreadyExists):
			log.Debug().Str("slug", g.Slug).Msg("group already present")
		default:
			return fmt.Errorf("seed group %q: %w", g.Slug, err)
		}
	}
	return nil
}
