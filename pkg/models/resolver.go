package models

import (
	"os/user"
	"strconv"
	"sync"
)

// NameResolver maps numeric ids to user and group names. Implementations
// must fall back to the numeric id rendered as a string when the lookup
// fails; an unknown id is not an error.
type NameResolver interface {
	Username(uid uint32) string
	Groupname(gid uint32) string
}

// systemResolver resolves names through the OS user database, caching
// results for the lifetime of the process.
type systemResolver struct {
	mu     sync.Mutex
	users  map[uint32]string
	groups map[uint32]string
}

var (
	sysResolverOnce sync.Once
	sysResolver     *systemResolver
)

// SystemResolver returns the shared resolver backed by the OS user and
// group databases.
func SystemResolver() NameResolver {
	sysResolverOnce.Do(func() {
		sysResolver = &systemResolver{
			users:  make(map[uint32]string),
			groups: make(map[uint32]string),
		}
	})
	return sysResolver
}

func (r *systemResolver) Username(uid uint32) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.users[uid]; ok {
		return name
	}

	name := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(name); err == nil {
		name = u.Username
	}
	r.users[uid] = name

	return name
}

func (r *systemResolver) Groupname(gid uint32) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.groups[gid]; ok {
		return name
	}

	name := strconv.FormatUint(uint64(gid), 10)
	if g, err := user.LookupGroupId(name); err == nil {
		name = g.Name
	}
	r.groups[gid] = name

	return name
}
