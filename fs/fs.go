// Package appfs embeds the dashboard's page templates.
package appfs

import "embed"

// Templates holds templates/*.gohtml; files starting with "_" are layouts shared by every page.
//
//go:embed templates/*.gohtml
var Templates embed.FS
