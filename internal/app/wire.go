//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/adapter/audio"
	"github.com/jyokotori/neko-words/internal/adapter/enricher"
	"github.com/jyokotori/neko-words/internal/adapter/remote"
	"github.com/jyokotori/neko-words/internal/adapter/repository"
	"github.com/jyokotori/neko-words/internal/adapter/rest"
	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/server"
	repo "github.com/jyokotori/neko-words/internal/repository"
	"github.com/jyokotori/neko-words/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	wire.FieldsOf(new(*config.Config), "LLM", "Client", "Audio"),
)

var loggerSet = wire.NewSet(
	server.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
)

var databaseSet = wire.NewSet(
	database.NewConnection,
)

var repositorySet = wire.NewSet(
	repository.NewWordRepository,
	repository.NewReviewRepository,
)

var enricherSet = wire.NewSet(
	enricher.NewOpenAI,
	wire.Bind(new(repo.WordEnricher), new(*enricher.OpenAI)),
)

var usecaseSet = wire.NewSet(
	usecase.NewReviewUsecase,
	usecase.NewWordUsecase,
)

var serverSet = wire.NewSet(
	rest.NewHandler,
	server.NewServer,
)

var clientSet = wire.NewSet(
	remote.NewClient,
	audio.NewPlayer,
)

// Initialize builds the server container using Wire.
func Initialize(configFile string) (*Container, func(), error) {
	wire.Build(
		configSet,
		loggerSet,
		databaseSet,
		repositorySet,
		enricherSet,
		usecaseSet,
		serverSet,
		wire.Struct(new(Container), "Config", "Logger", "DB", "Server"),
	)
	return nil, nil, nil
}

// InitializeClient builds the terminal client container using Wire.
func InitializeClient(configFile string) (*ClientContainer, error) {
	wire.Build(
		configSet,
		loggerSet,
		clientSet,
		wire.Struct(new(ClientContainer), "Config", "Logger", "Client", "Player"),
	)
	return nil, nil
}
