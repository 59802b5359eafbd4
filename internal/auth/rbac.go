package auth

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Action names an operation guarded by RBAC.
type Action string

const (
	ActionTicketCreate     Action = "ticket:create"
	ActionTicketList       Action = "ticket:list"
	ActionTicketTransition Action = "ticket:transition"
)

var permissions = map[domain.Role]map[Action]struct{}{
	domain.RoleAdmin: {
		ActionTicketCreate:     {},
		ActionTicketList:       {},
		ActionTicketTransition: {},
	},
	domain.RoleUser: {
		ActionTicketCreate: {},
		ActionTicketList:   {},
	},
}

// Can reports whether role may perform action. Unknown roles and actions are denied.
func Can(role domain.Role, action Action) bool {
	_, ok := permissions[role][action]
	return ok
}
