package main

import (
	"os/signal"
	"syscall"

	"github.com/timechallenge/backend/internal/domain/progression"
	"github.com/timechallenge/backend/pkg/kafka"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	s.loadRepos()

	service := progression.NewService(s.userRepo, s.challengeRepo)
	subscriber, err := kafka.NewSubscriber(
		s.configs.Kafka.GroupID,
		s.configs.Kafka.Addrs,
		[]string{s.configs.Kafka.AttemptTopic},
		progression.Handler(service),
	)
	if err != nil {
		return err
	}
	s.subscriber = subscriber

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.subscriber.Subscribe(ctx)
	s.logger.Infof("Subscribed to topic %s", s.configs.Kafka.AttemptTopic)

	<-ctx.Done()
	s.logger.Infof("Stopping subscriber")
	return s.subscriber.Stop(s.ctx)
}
