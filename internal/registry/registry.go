// Package registry announces the API in Consul so other services on the same
// agent can discover it. Registration is optional and driven by config.
package registry

import (
	"fmt"
	"strconv"

	capi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"

	"github.com/entrepages/diary-api/internal/config"
)

type Service struct {
	client *capi.Client
	logger *zap.Logger

	serviceID   string
	serviceName string
	addr        string
	port        int
}

func New(cfg config.Consul, httpPort string, logger *zap.Logger) (*Service, error) {
	client, err := capi.NewClient(capi.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("creating consul client: %w", err)
	}
	port, err := strconv.Atoi(httpPort)
	if err != nil {
		return nil, fmt.Errorf("invalid http port %q: %w", httpPort, err)
	}
	return &Service{
		client:      client,
		logger:      logger,
		serviceID:   cfg.ServiceName + "-" + httpPort,
		serviceName: cfg.ServiceName,
		addr:        cfg.ServiceAddr,
		port:        port,
	}, nil
}

func (s *Service) Register() error {
	reg := &capi.AgentServiceRegistration{
		ID:      s.serviceID,
		Name:    s.serviceName,
		Address: s.addr,
		Port:    s.port,
		Check: &capi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/", s.addr, s.port),
			Interval:                       "10s",
			Timeout:                        "1s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
	if err := s.client.Agent().ServiceRegister(reg); err != nil {
		return fmt.Errorf("registering service: %w", err)
	}
	s.logger.Info("registered in consul", zap.String("service_id", s.serviceID))
	return nil
}

func (s *Service) Deregister() {
	if err := s.client.Agent().ServiceDeregister(s.serviceID); err != nil {
		s.logger.Warn("failed to deregister from consul", zap.Error(err))
		return
	}
	s.logger.Info("deregistered from consul", zap.String("service_id", s.serviceID))
}
