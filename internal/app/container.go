package app

import (
	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/adapter/audio"
	"github.com/jyokotori/neko-words/internal/adapter/remote"
	"github.com/jyokotori/neko-words/internal/infrastructure/config"
	"github.com/jyokotori/neko-words/internal/infrastructure/database"
	"github.com/jyokotori/neko-words/internal/infrastructure/server"
)

// Container aggregates the server dependencies produced by Wire.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *database.DB
	Server *server.Server
}

// ClientContainer aggregates the terminal client dependencies produced by Wire.
type ClientContainer struct {
	Config *config.Config
	Logger *logrus.Logger
	Client *remote.Client
	Player *audio.Player
}
