// Package launcher opens the location settings dialog when the menu entry
// is activated.
package launcher

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/gen2brain/beeep"
)

// ErrNoCommand is returned when no settings command is configured.
var ErrNoCommand = errors.New("no settings command configured")

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// BeeepNotifier sends notifications through the desktop notification service.
type BeeepNotifier struct {
	AppName string
}

// Notify implements Notifier.
func (n BeeepNotifier) Notify(title, message string) error {
	if n.AppName != "" {
		beeep.AppName = n.AppName
	}
	return beeep.Notify(title, message, "")
}

// Launcher starts the settings dialog as a detached child process. It never
// waits for the dialog to close; a reaper goroutine collects the exit status.
type Launcher struct {
	mu              sync.Mutex
	command         []string
	notifier        Notifier
	notifyOnFailure bool
	launches        int

	reapers sync.WaitGroup
	notices sync.WaitGroup
}

// New creates a launcher. notifier may be nil.
func New(command []string, notifier Notifier, notifyOnFailure bool) *Launcher {
	return &Launcher{
		command:         append([]string(nil), command...),
		notifier:        notifier,
		notifyOnFailure: notifyOnFailure,
	}
}

// SetCommand replaces the command used by later launches.
func (l *Launcher) SetCommand(command []string, notifyOnFailure bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.command = append([]string(nil), command...)
	l.notifyOnFailure = notifyOnFailure
}

// Command returns a copy of the configured command.
func (l *Launcher) Command() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.command...)
}

// Launches returns the number of successfully started dialogs.
func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

// Launch starts the settings dialog and returns once it is running.
func (l *Launcher) Launch() error {
	l.mu.Lock()
	command := append([]string(nil), l.command...)
	notify := l.notifyOnFailure
	l.mu.Unlock()

	if len(command) == 0 || command[0] == "" {
		l.fail(notify, ErrNoCommand)
		return ErrNoCommand
	}

	cmd := exec.Command(command[0], command[1:]...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("failed to start %s: %w", command[0], err)
		l.fail(notify, err)
		return err
	}

	l.mu.Lock()
	l.launches++
	l.mu.Unlock()

	log.Printf("[launcher] Started %s (pid %d)", strings.Join(command, " "), cmd.Process.Pid)

	l.reapers.Add(1)
	go func() {
		defer l.reapers.Done()
		if err := cmd.Wait(); err != nil {
			log.Printf("[launcher] %s exited: %v", command[0], err)
			return
		}
		log.Printf("[launcher] %s exited", command[0])
	}()
	return nil
}

// Wait blocks until every started dialog has exited and every pending
// failure notice has been delivered.
func (l *Launcher) Wait() {
	l.reapers.Wait()
	l.notices.Wait()
}

func (l *Launcher) fail(notify bool, err error) {
	log.Printf("[launcher] Failed to open location settings: %v", err)
	if !notify || l.notifier == nil {
		return
	}

	// The notification service may be slow to answer; never hold the caller.
	l.notices.Add(1)
	go func(n Notifier) {
		defer l.notices.Done()
		if nerr := n.Notify("Location", "Could not open location settings"); nerr != nil {
			log.Printf("[launcher] Failed to send notification: %v", nerr)
		}
	}(l.notifier)
}
