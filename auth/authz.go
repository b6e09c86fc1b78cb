package auth

import (
	"fmt"
	"net"
	"net/netip"
	"regexp"
	"strings"

	"github.com/zpatrick/rbac"
	"go4.org/netipx"

	"go.hackfix.me/hypersphere/resource"
)

// Roles authorizes requests of authenticated users according to the
// permissions of their roles. A permission has the form "METHOD:/path/glob",
// where both parts may contain '*' wildcards, e.g. "GET:/people/*" or "*:*".
type Roles struct {
	roles map[string]rbac.Role
	users map[string][]string
}

// NewRoles returns a Roles authorizer. roles maps role names to permissions,
// and users maps user names to role names. It returns an error if a
// permission is malformed or a user references an unknown role.
func NewRoles(roles map[string][]string, users map[string][]string) (*Roles, error) {
	r := &Roles{
		roles: make(map[string]rbac.Role, len(roles)),
		users: make(map[string][]string, len(users)),
	}

	for name, perms := range roles {
		role := rbac.Role{RoleID: name}
		for _, p := range perms {
			action, target, ok := strings.Cut(p, ":")
			if !ok || action == "" || target == "" {
				return nil, fmt.Errorf(
					"invalid permission '%s' for role '%s': expected METHOD:/path", p, name)
			}
			role.Permissions = append(role.Permissions,
				rbac.NewGlobPermission(strings.ToUpper(action), target))
		}
		r.roles[name] = role
	}

	for user, userRoles := range users {
		for _, name := range userRoles {
			if _, ok := r.roles[name]; !ok {
				return nil, fmt.Errorf("user '%s' has unknown role '%s'", user, name)
			}
		}
		r.users[user] = userRoles
	}

	return r, nil
}

// Authorize reports whether any role of the request identity permits the
// request method on the request path. Requests without an identity are denied.
func (r *Roles) Authorize(req *resource.Request) bool {
	user, ok := req.Identity()
	if !ok {
		return false
	}

	for _, name := range r.users[user] {
		allowed, err := r.roles[name].Can(req.Method, req.Path)
		if err == nil && allowed {
			return true
		}
	}

	return false
}

// ClientIPs is an allow list of client IP addresses.
type ClientIPs struct {
	set *netipx.IPSet
}

// NewClientIPs returns an allow list from IP addresses in plain, CIDR or
// range notation, e.g. "192.168.1.1", "10.0.0.0/8" or
// "172.16.1.1-172.16.1.100".
func NewClientIPs(ipAddr ...string) (*ClientIPs, error) {
	var b netipx.IPSetBuilder
	for _, ip := range ipAddr {
		if addr, err := netip.ParseAddr(ip); err == nil {
			b.Add(addr)
			continue
		}
		if prefix, err := netip.ParsePrefix(ip); err == nil {
			b.AddPrefix(prefix)
			continue
		}
		ipRange, err := netipx.ParseIPRange(ip)
		if err != nil {
			return nil, fmt.Errorf("failed parsing IP address '%s': %w", ip, err)
		}
		b.AddRange(ipRange)
	}

	set, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("failed building IP set: %w", err)
	}

	return &ClientIPs{set: set}, nil
}

// Allowed reports whether the request remote address is in the allow list.
// RemoteAddr may be a bare address or in host:port form.
func (c *ClientIPs) Allowed(req *resource.Request) bool {
	host := req.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}

	return c.set.Contains(addr.Unmap())
}

// PathPattern validates that request paths match a regular expression.
type PathPattern struct {
	rx *regexp.Regexp
}

// NewPathPattern compiles pattern into a PathPattern validator.
func NewPathPattern(pattern string) (*PathPattern, error) {
	rx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern: %w", err)
	}
	return &PathPattern{rx: rx}, nil
}

// Validate reports whether the request path matches the pattern.
func (p *PathPattern) Validate(req *resource.Request) bool {
	return p.rx.MatchString(req.Path)
}
