// Package api contains the HTTP handlers, request/response models, and
// error mapping for the study engine's REST surface. Handlers stay
// thin: they decode and validate requests, delegate to the services,
// and translate service errors into sanitized JSON responses.
package api
