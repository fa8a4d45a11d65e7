// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/donar/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
