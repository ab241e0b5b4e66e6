// Package urls provides centralized constants for the documentation URLs
// shown in help text and troubleshooting hints.
//
// Usage:
//
//	import "github.com/muurk/rokuremote/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.ECPReference)
package urls
