// Command sftp-server is an SFTP v3 (draft-ietf-secsh-filexfer-02) server:
// it reads requests from fd 0, writes responses to fd 1, and takes no
// command-line arguments, no environment variables, and no persisted state.
// It is meant to be spawned directly by an SSH server as a subsystem,
// inheriting an already-authenticated stream on its standard descriptors.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jevinskie/nih-sftpd/internal/session"
)

// newLogger builds a stderr-only logger: stdout is the protocol wire and
// must never carry anything but response frames. The level is fixed at Info;
// the process interface deliberately exposes no knobs, so a deployer wanting
// a per-request Debug trace rebuilds with the level changed here.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr
	log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	log.SetLevel(logrus.InfoLevel)
	return log
}

func main() {
	log := newLogger()

	sess := session.New(int(os.Stdin.Fd()), int(os.Stdout.Fd()), log)
	if err := sess.Run(); err != nil {
		log.WithError(err).Error("sftp session terminated")
		os.Exit(1)
	}
}
