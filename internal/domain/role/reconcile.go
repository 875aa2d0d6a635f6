package role

import "sort"

// Delta is the minimal set of role operations that brings a customer's roles in line
// with the resolved tier
type Delta struct {
	Grant  []string `json:"grant"`
	Revoke []string `json:"revoke"`
}

// IsEmpty returns true when no operation is needed
func (d Delta) IsEmpty() bool {
	return len(d.Grant) == 0 && len(d.Revoke) == 0
}

// Size returns the number of operations in the delta
func (d Delta) Size() int {
	return len(d.Grant) + len(d.Revoke)
}

// Reconcile computes the delta for a customer.
//
// resolved is the role of the resolved tier, or "" when no tier qualifies.
// grant is {resolved} when it is set and not held; revoke is every held tier role other
// than resolved. Roles outside tierRoles are never touched, so at most one tier role
// remains after the delta is applied. Both lists are sorted.
func Reconcile(current, tierRoles []string, resolved string) Delta {
	held := toSet(current)
	bound := toSet(tierRoles)

	delta := Delta{Grant: []string{}, Revoke: []string{}}
	if resolved != "" {
		if _, ok := held[resolved]; !ok {
			delta.Grant = append(delta.Grant, resolved)
		}
	}

	for roleID := range held {
		if roleID == resolved {
			continue
		}
		if _, ok := bound[roleID]; ok {
			delta.Revoke = append(delta.Revoke, roleID)
		}
	}
	sort.Strings(delta.Revoke)

	return delta
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
