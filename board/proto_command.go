package board

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Issue writes cmd to REG_COMMAND and polls the register until the board
// replaced the opcode with a completion code. The returned Completion is
// never pending unless err is an ErrTimeout.
func (b *Board) Issue(cmd Command) (res Completion, err error) {
	log.Debugf("Issuing command %s (%#02x)", cmd, byte(cmd))

	if err = b.RegisterWrite(REG_COMMAND, byte(cmd)); err != nil {
		return res, err
	}

	maxPolls := 0
	if b.config.PollTimeout > 0 {
		maxPolls = int(b.config.PollTimeout / b.config.PollInterval)
		if maxPolls < 1 {
			maxPolls = 1
		}
	}

	for polls := 1; ; polls++ {
		b.sleep(b.config.PollInterval)

		code, err := b.RegisterRead(REG_COMMAND)
		if err != nil {
			return res, err
		}

		res = ClassifyCompletion(cmd, code)
		if res.Status != COMPLETION_PENDING {
			break
		}
		if maxPolls > 0 && polls >= maxPolls {
			err = errors.Wrapf(ErrTimeout, "command %s still pending after %v", cmd, b.config.PollTimeout)
			log.Error(err)
			return res, err
		}
	}

	if err = res.Err(); err != nil {
		log.Error(err)
	}
	return res, err
}

// Command issues cmd and waits for it to complete successfully.
func (b *Board) Command(cmd Command) error {
	_, err := b.Issue(cmd)
	return err
}

// CommandRead8 issues cmd and reads its 8 bit result from REG_DATA_0.
func (b *Board) CommandRead8(cmd Command) (res byte, err error) {
	if err = b.Command(cmd); err != nil {
		return 0, err
	}
	return b.RegisterRead(REG_DATA_0)
}

// CommandRead32 issues cmd and reads its 32 bit result from the data registers.
func (b *Board) CommandRead32(cmd Command) (res uint32, err error) {
	if err = b.Command(cmd); err != nil {
		return 0, err
	}
	return b.Value32Read()
}

// CommandWrite32 stages v in the data registers before issuing the command
// consuming it.
func (b *Board) CommandWrite32(cmd Command, v uint32) error {
	if err := b.Value32Write(v); err != nil {
		return err
	}
	return b.Command(cmd)
}
