// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import "encoding/json"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Request is the body of POST /audit.
// Query is sent exactly as typed; it is never trimmed.
type Request struct {
	Query string `json:"query"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Result is a complete audit answer. It is only ever built from a response
// in which all three fields were present, so a zero FormPrepared really
// means the service said false.
type Result struct {
	Category     string `json:"category"`
	AuditReport  string `json:"audit_report"`
	FormPrepared bool   `json:"form_prepared"`
}

// resultBody is the decode shape for a 2xx audit response. Pointer fields
// let us tell a missing or null field apart from a zero value.
type resultBody struct {
	Category     *string `json:"category"`
	AuditReport  *string `json:"audit_report"`
	FormPrepared *bool   `json:"form_prepared"`
}

// result converts the body into a Result, reporting false if any field is
// absent.
func (b resultBody) result() (Result, bool) {
	if b.Category == nil || b.AuditReport == nil || b.FormPrepared == nil {
		return Result{}, false
	}
	return Result{
		Category:     *b.Category,
		AuditReport:  *b.AuditReport,
		FormPrepared: *b.FormPrepared,
	}, true
}

// ErrorBody is the failure payload of the audit service.
// Detail is kept raw because validation errors carry a list there instead
// of a string.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// DetailString returns the detail field when it is a JSON string.
func (b ErrorBody) DetailString() (string, bool) {
	if len(b.Detail) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b.Detail, &s); err != nil {
		return "", false
	}
	return s, true
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// Healthy reports whether the service described itself as healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// Category describes one audit category known to the service.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CategoriesResponse is the body of GET /categories.
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}
