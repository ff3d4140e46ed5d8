// Copyright © 2026 The powerctl Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package cmd

import (
	"fmt"
	"strings"

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

var valueCmd = &cobra.Command{
	Use:   "value <name>",
	Short: "Print a single numeric value, for scripts",
	Long: `Print a single numeric value:
  button   button pressed (0-1)
  pgood    DC power good (0-1)
  rate     charge rate (1-3)
  ontime   powered duration (seconds)
  offtime  last power off duration (seconds)
  restart  power-up restart timer (seconds)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: board.ValueNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		return withBoard(func(b *board.Board) error {
			v, err := b.Value(name)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(valueCmd)
}
