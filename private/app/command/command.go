// Copyright 2024 The mkrpki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package command contains helpers to build cobra commands.
package command

import (
	"strings"

	"github.com/spf13/cobra"
)

// Pather returns the path to a command.
type Pather interface {
	CommandPath() string
}

// StringPather implements Pather with a static string.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// Join joins the path of the pather with the use of the command.
func Join(pather Pather, cmd *cobra.Command) Pather {
	return StringPather(strings.Join([]string{
		pather.CommandPath(),
		strings.SplitN(cmd.Use, " ", 2)[0],
	}, " "))
}
