package infra

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Model statis, subject-nya langsung nama role dari JWT claims.
// Tidak ada mapping user→role di database: role tersimpan di users.role
// dan perubahan grants lewat code review, bukan admin UI.
const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// grants: {role, resource, action}
var grants = [][3]string{
	// EMPLOYEE mengelola absence miliknya sendiri. Batasan "miliknya"
	// di-enforce di service layer, bukan di sini.
	{"EMPLOYEE", "absence", "create"},
	{"EMPLOYEE", "absence", "read"},
	{"EMPLOYEE", "absence", "delete"},
	{"EMPLOYEE", "absence", "upcoming"},
	{"EMPLOYEE", "user", "read"},
	{"EMPLOYEE", "organization", "read"},
	{"EMPLOYEE", "feedback", "create"},
	{"EMPLOYEE", "feedback", "read"},
	{"EMPLOYEE", "notification", "read"},
	{"EMPLOYEE", "notification", "update"},

	// MANAGER mewarisi EMPLOYEE (lihat roleInheritance) plus keputusan
	// approve/reject, kelola akun staf, dan profil organization.
	{"MANAGER", "absence", "approve"},
	{"MANAGER", "user", "create"},
	{"MANAGER", "user", "update"},
	{"MANAGER", "user", "delete"},
	{"MANAGER", "organization", "update"},

	// COWORKER murni read-only: direktori dan jadwal absence rekan.
	{"COWORKER", "absence", "upcoming"},
	{"COWORKER", "user", "read"},
	{"COWORKER", "organization", "read"},
}

// roleInheritance: {child, parent}
var roleInheritance = [][2]string{
	{"MANAGER", "EMPLOYEE"},
}

// NewEnforcer builds the in-memory enforcer with the static policy already
// loaded. No adapter: the policy never touches the database.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create rbac enforcer: %w", err)
	}

	for _, g := range grants {
		if _, err := enforcer.AddPolicy(g[0], g[1], g[2]); err != nil {
			return nil, fmt.Errorf("failed to add rbac grant %v: %w", g, err)
		}
	}

	for _, ri := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(ri[0], ri[1]); err != nil {
			return nil, fmt.Errorf("failed to add rbac inheritance %v: %w", ri, err)
		}
	}

	return enforcer, nil
}
