// Package config loads the book site client configuration.
//
// # Overview
//
// The client needs to know where the catalog backend lives, how long to wait
// for it, where to write its own log and which access groups carry meaning.
// All of it comes from one TOML file; every field is optional.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/booksite/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. BOOKSITE_BACKEND_URL, when set and non-blank, replaces backend_url
//
// # Default Values
//
//   - Config file: ~/.config/booksite/config.toml
//   - Backend: http://127.0.0.1:3611
//   - Request timeout: 10s
//   - Log file: ~/.local/state/booksite/booksite.log
//   - Log level: info
//   - Admin group: admins
//   - Member group: loggedInUsers
//
// # TOML Format
//
//	backend_url = "http://127.0.0.1:3611"
//	title = "Book Site"
//	request_timeout = "10s"
//	log_file = "~/.local/state/booksite/booksite.log"
//	log_level = "info"
//	admin_group = "admins"
//	member_group = "loggedInUsers"
//	placeholder_image_url = "https://example.com/no-image.jpg"
//
// request_timeout uses Go duration syntax and must be positive.
//
// # Path Expansion
//
// Paths starting with ~ are expanded to the user's home directory and made
// absolute. Expansion failures fall back to the unexpanded path rather than
// failing the load.
//
// # Error Handling
//
// Load returns errors for:
//
//   - Failure to resolve the home directory during path expansion
//   - File read errors (other than "not found")
//   - TOML parse errors or an invalid request_timeout
//
// A missing config file is not an error.
package config
