/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

// User types carried by tokens and identity headers.
const (
	UserTypeAdmin  = "admin"
	UserTypeNormal = "user"

	// AnonymousUserId is the principal used in open mode when no identity
	// header is present, e.g. single-operator deployments behind a trusted
	// gateway.
	AnonymousUserId = "anonymous"
)

// Permission names the actions the API facade guards.
type Permission string

const (
	PermTaskSubmit Permission = "task:submit"
	PermQueueView  Permission = "queue:view"
	PermAdmin      Permission = "admin"
)

// Principal is the resolved identity of a request. The core never performs
// authentication itself; it consumes this already-resolved value.
type Principal struct {
	UserId   string
	UserName string
	UserType string
}

// IsAdmin reports whether the principal holds the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.UserType == UserTypeAdmin
}

// GlobalView reports whether the principal may see tasks of every owner.
func (p *Principal) GlobalView() bool {
	return p.IsAdmin()
}

// Can reports whether the principal holds the given permission. Admins hold
// everything; normal users may submit and view the queue.
func (p *Principal) Can(perm Permission) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	switch perm {
	case PermTaskSubmit, PermQueueView:
		return true
	default:
		return false
	}
}
