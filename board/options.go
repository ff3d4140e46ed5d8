package board

import "time"

// Config holds the timing of a board session.
type Config struct {
	// PollInterval is the delay between two reads of REG_COMMAND
	PollInterval time.Duration

	// PollTimeout bounds the completion poll. Zero waits forever, like the
	// stock tool does.
	PollTimeout time.Duration

	// BootloaderSettle is the delay between ENTER BOOTLOADER and the identity re-check
	BootloaderSettle time.Duration

	// FlashAddressSettle follows every write of BOOT_REG_ADDR
	FlashAddressSettle time.Duration

	// FlashBlockDelay follows every 16 byte block written to BOOT_REG_DATA
	FlashBlockDelay time.Duration

	// FlashStepDelay follows every erase and program opcode
	FlashStepDelay time.Duration

	// ProgressCallback is called after every programmed half-page (optional)
	ProgressCallback ProgressCallback
}

func defaultConfig() Config {
	return Config{
		PollInterval:       time.Millisecond,
		PollTimeout:        5 * time.Second,
		BootloaderSettle:   2 * time.Second,
		FlashAddressSettle: time.Millisecond,
		FlashBlockDelay:    time.Millisecond,
		FlashStepDelay:     50 * time.Millisecond,
	}
}

// Option is a functional option for configuring a Board.
type Option func(*Config)

// WithPollTimeout bounds the wait for a command to leave REG_COMMAND. A
// timeout of zero restores the unbounded wait.
func WithPollTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.PollTimeout = timeout
		}
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

func WithBootloaderSettle(d time.Duration) Option {
	return func(c *Config) {
		c.BootloaderSettle = d
	}
}

// WithProgressCallback sets a callback tracking firmware upload progress.
func WithProgressCallback(cb ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = cb
	}
}
