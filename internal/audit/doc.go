// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit provides the HTTP client for the FiscalPulse audit service.
//
// The service accepts a natural-language financial query and answers with a
// categorized compliance report. This package owns the wire contract only;
// it does not decide what a failure means to the user. That is the job of
// the session package, which turns every error returned here into a single
// display message.
//
// # Key Types
//
//   - Client: HTTP client for the audit, health and categories endpoints
//   - Result: a fully decoded audit answer (category, report, form flag)
//   - ClientError: typed failure carrying the service-provided detail, if any
//
// # Usage
//
//	client := audit.NewClientWithConfig(&audit.ClientConfig{
//	    BaseURL: "http://localhost:8000",
//	})
//	res, err := client.Audit(ctx, "Check my hardware expenses")
//	if detail := audit.DetailOf(err); detail != "" {
//	    fmt.Println(detail)
//	}
//
// # Wire format
//
// POST /audit with {"query": "..."}. A 2xx answer must carry category,
// audit_report and form_prepared, all present and correctly typed; anything
// else is reported as ErrTypeMalformed. A non-2xx answer may carry a string
// "detail" field, which is surfaced through ClientError.Detail.
package audit
