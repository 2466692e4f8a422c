package notifications

import (
	"context"
	"sort"
	"sync"
)

// Conn is one live client channel. Implementations must be comparable
// (pointer receivers) because the registry identifies entries by value.
type Conn interface {
	Send(ctx context.Context, msg Message) error
}

// Registry tracks live connections by user and by department.
//
// Buckets are multisets: registering the same connection twice adds two
// entries, and each Register must be paired with exactly one Unregister.
// Registering a duplicate without unregistering is a caller error and is not
// deduplicated.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string][]Conn
	byDept map[string][]Conn
}

type RegistryStats struct {
	Connections int `json:"connections"`
	Users       int `json:"users"`
	Departments int `json:"departments"`
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: map[string][]Conn{},
		byDept: map[string][]Conn{},
	}
}

func (r *Registry) Register(conn Conn, userID, departmentID string) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append(r.byUser[userID], conn)
	r.byDept[departmentID] = append(r.byDept[departmentID], conn)
}

// Unregister removes one entry for conn from both buckets. Absent entries are
// ignored.
func (r *Registry) Unregister(conn Conn, userID, departmentID string) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removeFrom(r.byUser, userID, conn)
	removeFrom(r.byDept, departmentID, conn)
}

func removeFrom(index map[string][]Conn, key string, conn Conn) {
	bucket, ok := index[key]
	if !ok {
		return
	}
	for i, c := range bucket {
		if c != conn {
			continue
		}
		bucket = append(bucket[:i:i], bucket[i+1:]...)
		break
	}
	if len(bucket) == 0 {
		delete(index, key)
		return
	}
	index[key] = bucket
}

func (r *Registry) ConnectionsForUser(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.byUser[userID])
}

func (r *Registry) ConnectionsForDepartment(departmentID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot(r.byDept[departmentID])
}

func snapshot(bucket []Conn) []Conn {
	if len(bucket) == 0 {
		return nil
	}
	out := make([]Conn, len(bucket))
	copy(out, bucket)
	return out
}

// Departments lists department ids that currently have at least one live
// connection, sorted.
func (r *Registry) Departments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byDept))
	for id := range r.byDept {
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Stats counts live connections. Connections without a department are not
// counted as a department.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, bucket := range r.byUser {
		total += len(bucket)
	}
	departments := len(r.byDept)
	if _, ok := r.byDept[""]; ok {
		departments--
	}
	return RegistryStats{
		Connections: total,
		Users:       len(r.byUser),
		Departments: departments,
	}
}
