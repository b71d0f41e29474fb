package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/trucomm/trucomm/internal/clock"
	"github.com/trucomm/trucomm/internal/config"
	"github.com/trucomm/trucomm/internal/migration"
	"github.com/trucomm/trucomm/internal/server"
	"github.com/trucomm/trucomm/pkg/db"
	"github.com/trucomm/trucomm/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
