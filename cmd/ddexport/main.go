// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command ddexport serves a demo GraphQL router whose spans are
// exported to the configured tracing backends.
package main

import (
	"context"
	"os"
)

func main() {
	err := newCommand().ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
