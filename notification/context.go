package notification

import "github.com/samber/lo"

// Context accumulates classified messages during one unit of work.
//
// It is intended to be created fresh per request scope, written to by any
// handler during request processing, and read once by a terminal stage that
// converts HasErrors into a failure response. It is not safe for concurrent
// use; per-request scoping is the synchronization model.
type Context struct {
	notifications []Notification
}

// NewContext returns an empty notification context.
func NewContext() *Context {
	return &Context{notifications: make([]Notification, 0)}
}

// Add appends a notification, preserving insertion order.
func (c *Context) Add(n Notification) {
	c.notifications = append(c.notifications, n)
}

// AddRange appends all given notifications, preserving insertion order.
func (c *Context) AddRange(ns []Notification) {
	c.notifications = append(c.notifications, ns...)
}

// All returns every accumulated notification in insertion order.
func (c *Context) All() []Notification {
	return c.notifications
}

// Clear removes every accumulated notification.
func (c *Context) Clear() {
	c.notifications = c.notifications[:0]
}

// ClearKind removes all notifications of exactly the variant N,
// leaving other variants intact.
func ClearKind[N Notification](c *Context) {
	c.notifications = lo.Reject(c.notifications, func(n Notification, _ int) bool {
		_, ok := n.(N)
		return ok
	})
}

// Errors returns all Critical entries in insertion order.
func (c *Context) Errors() []Critical {
	return ofKind[Critical](c)
}

// Warnings returns all Warning entries in insertion order.
func (c *Context) Warnings() []Warning {
	return ofKind[Warning](c)
}

// Informations returns all Information entries in insertion order.
func (c *Context) Informations() []Information {
	return ofKind[Information](c)
}

func (c *Context) HasErrors() bool       { return len(c.Errors()) > 0 }
func (c *Context) HasWarnings() bool     { return len(c.Warnings()) > 0 }
func (c *Context) HasInformations() bool { return len(c.Informations()) > 0 }
func (c *Context) HasNotifications() bool {
	return len(c.notifications) > 0
}

func ofKind[N Notification](c *Context) []N {
	return lo.FilterMap(c.notifications, func(n Notification, _ int) (N, bool) {
		v, ok := n.(N)
		return v, ok
	})
}
