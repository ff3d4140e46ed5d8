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

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

func QueryBoard(b *board.Board) error {
	s, err := b.Snapshot()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(s.String())
	fmt.Println()
	return nil
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show board info and state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(QueryBoard)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
