// Package api provides the request and response types for the cad3d HTTP API.
//
// # API Overview
//
// cad3d exposes a small RESTful surface:
//   - Parsing shape prompts into structured descriptors
//   - Generating STL models from prompts
//   - Browsing recent generations and canned example prompts
//   - Downloading generated artifacts
//   - Health monitoring and metrics
//
// # Authentication
//
// When an API key is configured, mutating endpoints require the
// X-API-Key header:
//
//	X-API-Key: your-api-key
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080
package api
