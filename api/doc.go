// Package api provides the HTTP preview layer for the richview pipeline.
// It uses the Huma framework on a chi router to provide automatic OpenAPI
// documentation, request validation and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration, CORS and middleware wiring
// - handlers/: HTTP request handlers over a richview.Client
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: request logging with request IDs, per-client rate limiting
//
// # Endpoints
//
//	POST   /v1/render    Markdown, styled text and elements
//	POST   /v1/markdown  Markdown only
//	POST   /v1/elements  extracted content elements, images always on
//	POST   /v1/detect    code language guess
//	POST   /v1/mentions  @username scan
//	GET    /v1/stats     pipeline statistics (stats flag)
//	DELETE /v1/cache     clear the render cache (cache admin flag)
//	GET    /health
//
// The OpenAPI document is served at /openapi.json and the interactive
// docs at /docs. Bodies may be sent and requested as JSON or CBOR.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  120,
//	    RateWindow: time.Minute,
//	})
//	handlers.NewRenderHandler(client, flags, logger).RegisterRoutes(humaAPI)
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 format. Markup the pipeline rejects (unsupported
// tags, invalid HTML) maps to 422, bad configuration to 400, a shutting
// down pipeline to 503 and everything else to 500.
package api
