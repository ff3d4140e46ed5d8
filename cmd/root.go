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
	"os"
	"strconv"
	"time"

	"github.com/andicelabs/powerctl/board"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	EXIT_OK       = 0
	EXIT_SETUP    = 1 // transport, identity, usage
	EXIT_PROTOCOL = 2 // completion fault or timeout
	EXIT_IMAGE    = 3
	EXIT_RANGE    = 4
)

type globalOptions struct {
	bus         string
	address     string
	pollTimeout time.Duration
	verbose     bool
	trace       bool
}

var opts = globalOptions{}

var rootCmd = &cobra.Command{
	Use:   "powerctl",
	Short: "Control AndiceLabs PowerCape / PowerHAT / Power Module boards over I2C",
	Long: `powerctl talks to the power controller of AndiceLabs power boards over I2C,
either through a Linux I2C bus or an MCP2221A USB-I2C bridge ('--bus usb').`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		if opts.verbose || opts.trace {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.bus, "bus", "b", "1", "I2C bus name or number, 'usb[:index]' for an MCP2221A bridge")
	pf.StringVarP(&opts.address, "address", "a", "0x60", "I2C address of the board (0x08..0x77)")
	pf.DurationVar(&opts.pollTimeout, "poll-timeout", 5*time.Second, "give up on a command after this long, 0 waits forever")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug output")
	pf.BoolVar(&opts.trace, "trace", false, "dump every I2C frame")
}

func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, &board.RangeError{Param: "I2C address", Value: s, Min: board.ADDRESS_MIN, Max: board.ADDRESS_MAX}
	}
	return uint16(v), nil
}

// openBoard opens the session selected by the global flags. With
// requirePresent the run-mode signature must answer, otherwise nothing else
// is attempted.
func openBoard(o globalOptions, requirePresent bool, extra ...board.Option) (b *board.Board, err error) {
	addr, err := parseAddress(o.address)
	if err != nil {
		return nil, err
	}

	log.Debugf("Using I2C bus %s, address %#02x", o.bus, addr)
	bopts := append([]board.Option{board.WithPollTimeout(o.pollTimeout)}, extra...)
	if b, err = board.Open(o.bus, addr, bopts...); err != nil {
		return nil, err
	}
	b.SetShowInOut(o.trace)

	if requirePresent {
		if err = b.RequirePresent(); err != nil {
			b.Close()
			return nil, err
		}
	}
	return b, nil
}

// withBoard runs fn against a present board and closes the session
// afterwards.
func withBoard(fn func(b *board.Board) error) error {
	b, err := openBoard(opts, true)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, board.ErrProtocol), errors.Is(err, board.ErrTimeout):
		return EXIT_PROTOCOL
	case errors.Is(err, board.ErrImage):
		return EXIT_IMAGE
	case errors.Is(err, board.ErrRange):
		return EXIT_RANGE
	}
	return EXIT_SETUP
}

// reported tells whether the board package already logged err.
func reported(err error) bool {
	for _, k := range []error{board.ErrTransport, board.ErrProtocol, board.ErrIdentity, board.ErrImage, board.ErrTimeout} {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil && !reported(err) {
		log.Error(err)
	}
	os.Exit(ExitCode(err))
}
