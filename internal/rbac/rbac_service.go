package rbac

import (
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	// Enforce answers whether a role may perform action on resource.
	Enforce(role, resource, action string) (bool, error)

	// Grants lists the full static policy, for introspection endpoints.
	Grants() ([]Grant, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	role = strings.ToUpper(strings.TrimSpace(role))

	s.mu.Lock()
	allowed, err := s.enforcer.Enforce(role, resource, action)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	if !allowed {
		s.logger.Debug("rbac deny",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
		)
	}

	return allowed, nil
}

func (s *service) Grants() ([]Grant, error) {
	s.mu.Lock()
	policy, err := s.enforcer.GetPolicy()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	grants := make([]Grant, 0, len(policy))
	for _, p := range policy {
		if len(p) < 3 {
			continue
		}
		grants = append(grants, Grant{Role: p[0], Resource: p[1], Action: p[2]})
	}

	return grants, nil
}
