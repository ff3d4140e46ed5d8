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
	"time"

	"github.com/andicelabs/powerctl/board"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func ShowRTC(b *board.Board) error {
	t, err := b.ReadRTC()
	if err != nil {
		return err
	}
	secs := t.Unix()
	fmt.Printf("Board RTC seconds %08X (%d)\n", secs, secs)
	fmt.Println(t.Format(time.ANSIC))
	return nil
}

// WriteRTC sets the board clock from the system clock, aligned to the start
// of the next system second.
func WriteRTC(b *board.Board) error {
	now := time.Now()
	time.Sleep(time.Second - time.Duration(now.Nanosecond()))
	now = time.Now()

	if err := b.WriteRTC(now); err != nil {
		return err
	}
	secs := now.Unix()
	fmt.Printf("System seconds %08X (%d)\n", secs, secs)
	fmt.Println(now.Format(time.ANSIC))
	return nil
}

// SyncSystemTime sets the system clock from the board RTC.
func SyncSystemTime(b *board.Board) error {
	t, err := b.ReadRTC()
	if err != nil {
		return err
	}
	tv := unix.NsecToTimeval(t.UnixNano())
	if err = unix.Settimeofday(&tv); err != nil {
		return errors.Wrap(err, "could not set system time")
	}
	log.Infof("System time set to %s", t.Format(time.ANSIC))
	return nil
}

var rtcCmd = &cobra.Command{
	Use:   "rtc",
	Short: "Board real time clock",
}

var rtcReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read and display the board RTC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(ShowRTC)
	},
}

var rtcWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the board RTC from system time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(WriteRTC)
	},
}

var rtcSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Set system time from the board RTC (needs root)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(SyncSystemTime)
	},
}

func init() {
	rootCmd.AddCommand(rtcCmd)
	rtcCmd.AddCommand(rtcReadCmd, rtcWriteCmd, rtcSyncCmd)
}
