package server

import (
	"fmt"

	"github.com/NeuralTrust/XSSGuard/pkg/config"
	"github.com/NeuralTrust/XSSGuard/pkg/middleware"
	"github.com/NeuralTrust/XSSGuard/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	AppServerDI struct {
		Config              *config.Config
		Logger              *logrus.Logger
		MiddlewareTransport middleware.Transport
		Routers             []router.ServerRouter
	}
	AppServer struct {
		*BaseServer
	}
)

func NewAppServer(di AppServerDI) *AppServer {
	base := NewBaseServer(di.Config, di.Logger)

	mt := di.MiddlewareTransport
	for _, m := range []middleware.Middleware{
		mt.PanicRecoverMiddleware,
		mt.RequestLoggerMiddleware,
		mt.SecurityHeadersMiddleware,
	} {
		if m != nil {
			base.Router.Use(m.Middleware())
		}
	}
	base.WithRouters(di.Routers...)

	return &AppServer{BaseServer: base}
}

func (s *AppServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting xssguard server")
	return s.Router.Listen(addr)
}
