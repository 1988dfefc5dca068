package authz

import (
	"fmt"

	"github.com/ninetytwo-orders/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置访问矩阵：行级读写与单订单读取对访客开放，订单级变更需管理员会话
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleGuest,
			Policies: []Policy{
				{Object: "/api/login", Action: "POST"},
				{Object: "/api/logout", Action: "POST"},
				{Object: "/api/session", Action: "GET"},
				{Object: "/api/captcha", Action: "GET"},
				{Object: "/api/catalog", Action: "GET"},
				{Object: "/api/size-suggestion", Action: "GET"},
				{Object: "/api/orders/:slug", Action: "GET"},
				{Object: "/api/orders/:slug/export", Action: "GET"},
				{Object: "/api/orders/:slug/rows", Action: "POST"},
				{Object: "/api/orders/:slug/rows/:id", Action: "PATCH"},
				{Object: "/api/orders/:slug/rows/:id", Action: "DELETE"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleGuest},
			Policies: []Policy{
				{Object: "/api/orders", Action: "GET"},
				{Object: "/api/orders", Action: "POST"},
				{Object: "/api/orders/:slug", Action: "PATCH"},
				{Object: "/api/orders/:slug", Action: "DELETE"},
				{Object: "/api/orders/:slug/exports", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（幂等）
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
