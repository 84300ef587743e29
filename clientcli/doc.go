// Package clientcli provides a client library for interacting with stash servers.
//
// It supports upload, download, delete, and paste operations. Uploads carry the
// server's bearer token; the other routes are open. The package includes
// profile-based configuration for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and upload a file:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8083",
//		Token:    "your-token",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath: "./notes.md",
//		Directory: "docs",
//		Safe:      true,
//	})
//	if errors.Is(err, clientcli.ErrConflict) {
//		// docs/notes.md already exists
//	}
//
// # Profile Configuration
//
// Profiles live in ~/.stash/config.yaml. Resolve picks one and layers the
// STASH_* environment variables and explicit values on top:
//
//	cfg, err := clientcli.Resolve(clientcli.Sources{Profile: "production"}, os.Getenv)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(cfg)
//	if err := client.CheckToken(ctx); errors.Is(err, clientcli.ErrUnauthorized) {
//		// the server rejected the profile's token
//	}
//
// cfg.Directory and cfg.Safe hold the profile's upload defaults.
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, results)
package clientcli
