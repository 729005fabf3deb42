package cmd

import (
	"log"

	"github.com/crussella0129/diffr/internal/logging"
)

func init() {
	// Route anything written through the standard library's global logger
	// (dependencies that haven't been handed a *logging.Logger still use it)
	// through diffr's own logger instead of letting it hit stderr unprefixed
	// or silencing it outright. Strip the stdlib logger's own timestamp
	// prefix since logging.Logger.Print adds its own.
	log.SetFlags(0)
	log.SetOutput(logging.RootLogger.Sublogger("stdlib").Writer())
}
