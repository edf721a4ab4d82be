// Package authz holds the role model and the per-operation allow-list table.
//
// The policy table is assembled once at process start and is read-only for the
// process lifetime. Authorization is exact-match role membership: there is no
// role hierarchy and no implicit superuser bypass, so super_admin must be
// listed explicitly on every operation it may call.
package authz
