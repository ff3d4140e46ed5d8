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

const startSettingsHelp = `Settings:
  button   button pressed
  opto     external opto signal
  pgood    DC power good
  timeout  countdown timer
  poweron  initial power`

func UpdateStartSetting(b *board.Board, name string, enable bool) error {
	mask, err := board.StartSettingByName(name)
	if err != nil {
		return err
	}

	var changed bool
	if enable {
		changed, err = b.EnableStart(mask)
	} else {
		changed, err = b.DisableStart(mask)
	}
	if err != nil {
		return err
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	if changed {
		fmt.Printf("Start on %s %s\n", name, state)
	} else {
		fmt.Printf("Start on %s already %s\n", name, state)
	}
	return nil
}

var enableCmd = &cobra.Command{
	Use:   "enable <setting>",
	Short: "Enable a power-up trigger",
	Long:  "Enable a power-up trigger.\n\n" + startSettingsHelp,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			return UpdateStartSetting(b, args[0], true)
		})
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <setting>",
	Short: "Disable a power-up trigger",
	Long:  "Disable a power-up trigger.\n\n" + startSettingsHelp,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(b *board.Board) error {
			return UpdateStartSetting(b, args[0], false)
		})
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
