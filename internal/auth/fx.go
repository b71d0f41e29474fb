package auth

import (
	"github.com/trucomm/trucomm/internal/auth/repository"
	"github.com/trucomm/trucomm/internal/auth/service"
	"github.com/trucomm/trucomm/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(token.NewCodec),
	fx.Provide(service.New),
)
