package run

import (
	"errors"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

func spawnPTY(r *Run, onExit func(id string)) error {
	cmd := exec.Command(r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = append(cmd.Environ(), "TERM=xterm-256color", "ELECTRON_ENABLE_LOGGING=1")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	r.ptmx = ptmx
	r.cmd = cmd

	go readLoop(r, ptmx, onExit)
	return nil
}

func readLoop(r *Run, src io.Reader, onExit func(id string)) {
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			r.publish(data)
		}
		if err != nil {
			if r.cmd != nil {
				_ = r.cmd.Wait()
			}
			onExit(r.ID)
			close(r.done)
			return
		}
	}
}

// Resize sets the terminal size of the run's pty.
func (r *Run) Resize(cols, rows uint16) error {
	if r.ptmx == nil {
		return errors.New("run has no pty")
	}
	return pty.Setsize(r.ptmx, &pty.Winsize{Cols: cols, Rows: rows})
}
