// Package http provides the HTTP surface of the stash content store.
//
// # Routes
//
//	GET    /                 service banner
//	POST   /upload           multipart upload (bearer token required)
//	GET    /uploads/<path>   raw download with a content type inferred from the name
//	DELETE /uploads/<path>   delete
//	GET    /pastes/<path>    HTML paste view of a text object (optional)
//
// POST /upload accepts the query parameters directory (a single segment, or "/")
// and safe (any value strconv.ParseBool understands). Only the first multipart
// part is read, and it must carry a file name.
//
// # Authentication
//
// Uploads are guarded by AuthMiddleware, which expects "Authorization: Bearer <token>"
// and delegates the comparison to a stash.TokenVerifier:
//
//	verifier := keybackend.NewStaticToken(token)
//	router.Use(http.AuthMiddleware(verifier))  // authenticated
//	router.Use(http.AuthMiddleware(nil))       // public access
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    UploadVerifier: verifier,
//	    PasteEnabled:   true,
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8083", handler.Router())
//
// The service parameter must implement the Service interface with Upload, Get,
// Delete, and Paste methods; *stash.Service does.
//
// # Errors
//
// Failures are reported as {"error": code, "message": text} with the codes
// unauthorized, invalid_request, conflict, payload_too_large, not_found and
// internal_error. HandleError picks the code with errors.Is against the stash
// sentinel errors.
package http
