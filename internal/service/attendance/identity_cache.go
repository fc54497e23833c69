package attendance

import (
	"strings"
	"sync"

	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
)

// IdentityCache memoizes device-identifier to employee resolution for the
// duration of the process. Devices repeat the same handful of identifiers
// thousands of times per sync, so a single lookup per identifier is enough.
// Invalidate must be called whenever employee identifiers change upstream.
type IdentityCache struct {
	mu      sync.RWMutex
	entries map[string]employee.Employee
}

func NewIdentityCache() *IdentityCache {
	return &IdentityCache{entries: make(map[string]employee.Employee)}
}

func cacheKey(tenantID, deviceUserID string) string {
	return tenantID + "/" + deviceUserID
}

func (c *IdentityCache) Get(tenantID, deviceUserID string) (employee.Employee, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey(tenantID, deviceUserID)]
	return e, ok
}

func (c *IdentityCache) Put(tenantID, deviceUserID string, e employee.Employee) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(tenantID, deviceUserID)] = e
}

// Invalidate drops every cached entry for the tenant.
func (c *IdentityCache) Invalidate(tenantID string) {
	prefix := tenantID + "/"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// IdentifierCandidates expands a raw device identifier into the forms it may
// be stored under. Many deployments register biometric users by the numeric
// tail of the employee code, so "17" must also try "HO017" style codes.
func IdentifierCandidates(deviceUserID string) []string {
	id := strings.TrimSpace(deviceUserID)
	candidates := []string{id}

	if isAllDigits(id) && len(id) <= 4 {
		padded := id
		for len(padded) < 3 {
			padded = "0" + padded
		}
		candidates = append(candidates,
			"HO"+padded,
			"HO"+id,
			strings.TrimLeft(id, "0"),
		)
	}

	return dedupe(candidates)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
