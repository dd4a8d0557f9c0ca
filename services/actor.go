package services

import (
	"fmt"

	"github.com/acroscarlos/suite-erp-api/models"
)

// Capability is a named permission checked once per operation. Capabilities
// replace scattered role-string comparisons: the request boundary resolves the
// actor once and core logic only ever asks "can this actor do X".
type Capability int

const (
	CapCreateOrder Capability = iota
	CapTransitionOwnOrders
	CapDispatchOrders // logistics: may transition any order into "dispatched"
	CapViewAllOrders
	CapOverrideLock // elevated: bypasses ownership scoping and the immutability lock
	CapCloseLedger
	CapAssignPrize
	CapRunMaintenance
)

// Actor is the authenticated identity threaded explicitly into every core
// operation. It is built once at the request boundary; services never read
// ambient user state.
type Actor struct {
	SellerID uint
	Name     string
	Role     string
	caps     map[Capability]bool
}

// NewActor builds an actor with the capability set implied by the employee's role
func NewActor(e *models.Employee) Actor {
	caps := map[Capability]bool{
		CapCreateOrder:         true,
		CapTransitionOwnOrders: true,
	}
	switch e.Role {
	case models.RoleLogistics:
		caps[CapDispatchOrders] = true
		caps[CapViewAllOrders] = true
	case models.RoleManager, models.RoleAdmin:
		caps[CapDispatchOrders] = true
		caps[CapViewAllOrders] = true
		caps[CapOverrideLock] = true
		caps[CapCloseLedger] = true
		caps[CapAssignPrize] = true
		caps[CapRunMaintenance] = true
	}
	return Actor{SellerID: e.ID, Name: e.Name, Role: e.Role, caps: caps}
}

// Can reports whether the actor holds a capability
func (a Actor) Can(c Capability) bool {
	return a.caps[c]
}

// IsElevated reports whether the actor bypasses ownership and immutability rules
func (a Actor) IsElevated() bool {
	return a.Can(CapOverrideLock)
}

// Authorize returns a FORBIDDEN error unless the actor holds the capability
func Authorize(a Actor, c Capability) error {
	if !a.Can(c) {
		return newError(CodeForbidden, fmt.Sprintf("role %q lacks the required permission", a.Role))
	}
	return nil
}
