// Package assets bundles the default library documents into the binary.
package assets

import "embed"

// FS holds books/*.json and psalms/*.json.
//
//go:embed books/*.json psalms/*.json
var FS embed.FS
