// Package access decide permisos a partir del conjunto de roles del usuario autenticado.
package access

import "strings"

// Gate pertenencia de roles: quién puede mutar y quién puede ver precios de compra.
type Gate struct {
	privileged    map[string]struct{}
	purchasePrice map[string]struct{}
}

// NewGate construye el gate con los roles configurados.
func NewGate(privileged, purchasePrice []string) *Gate {
	return &Gate{privileged: toSet(privileged), purchasePrice: toSet(purchasePrice)}
}

// HasPrivilegedRole informa si algún rol habilita operaciones de escritura.
func (g *Gate) HasPrivilegedRole(roles []string) bool {
	return intersects(g.privileged, roles)
}

// CanSeePurchasePrice informa si las respuestas pueden incluir precios de compra.
func (g *Gate) CanSeePurchasePrice(roles []string) bool {
	return intersects(g.purchasePrice, roles)
}

// PrivilegedRoles devuelve los roles privilegiados configurados.
func (g *Gate) PrivilegedRoles() []string {
	out := make([]string, 0, len(g.privileged))
	for r := range g.privileged {
		out = append(out, r)
	}
	return out
}

func toSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if r = normalize(r); r != "" {
			set[r] = struct{}{}
		}
	}
	return set
}

func intersects(set map[string]struct{}, roles []string) bool {
	for _, r := range roles {
		if _, ok := set[normalize(r)]; ok {
			return true
		}
	}
	return false
}

func normalize(r string) string { return strings.ToLower(strings.TrimSpace(r)) }
