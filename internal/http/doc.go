// Package http provides HTTP handlers and middleware for the conflict API.
//
// The router exposes the following read-only endpoints:
//   - GET /versions: lists schedule versions, newest first. Response:
//     {"versions":[versionDTO]}.
//   - GET /versions/{id}/conflicts?kinds=faculty,room: runs conflict detection
//     for the version. Omitting kinds analyses every resource kind. Response:
//     conflictReportDTO defined in conflict_handler.go.
//   - GET /versions/{id}/grid?kind=room&resource_id=R1: projects one resource
//     onto the weekly grid. Response: gridDTO defined in conflict_handler.go.
//   - GET /healthz: reports storage reachability.
//   - GET /metrics: Prometheus exposition, mounted only when a gatherer is set.
//
// Errors are returned as {"message","errors"} with localized messages.
// Request/response DTOs live alongside their handlers so tests and
// documentation share the same ground truth.
package http
