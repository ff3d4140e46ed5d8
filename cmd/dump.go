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
	"io/ioutil"

	"github.com/andicelabs/powerctl/board"
	"github.com/spf13/cobra"
)

var tmpDumpFile = ""

func DumpRegisters(b *board.Board, filename string) error {
	dump, err := b.DumpRegisters()
	if err != nil {
		return err
	}

	for reg, v := range dump {
		fmt.Printf("%#02x %-18s: %#02x (%d)\n", reg, board.Register(reg), v, v)
	}

	if len(filename) > 0 {
		if err = ioutil.WriteFile(filename, dump[:], 0644); err != nil {
			return err
		}
		fmt.Printf("dumped registers stored to file '%s'\n", filename)
	}
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the controller's register file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			return DumpRegisters(b, tmpDumpFile)
		})
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&tmpDumpFile, "output", "o", "", "also write the raw register bytes to this file")
}
