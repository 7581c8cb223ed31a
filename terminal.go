package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fiddle-server/filemanager"
	"fiddle-server/ipc"
	"fiddle-server/ui"
)

// terminal is the front end of the CLI commands. It stands in for the
// editor: it subscribes to the bridge, answers dialog requests with prompts
// and prints what the file manager reports.
type terminal struct {
	*app
	ui  *ui.UI
	out chan ipc.Message
	// saveEvent answers a save dialog.
	saveEvent string
}

func newTerminal() (*terminal, error) {
	u := ui.New()
	u.SetNonInteractive(nonInteractive)

	a, err := newApp(func(*ipc.Bridge) filemanager.CustomEditorVerifier { return u })
	if err != nil {
		return nil, err
	}
	a.editor.SetGuard(u.ConfirmDiscard)

	t := &terminal{app: a, ui: u, out: make(chan ipc.Message, 64), saveEvent: ipc.SaveFiddle}
	a.bridge.Subscribe(t.out)
	return t, nil
}

func (t *terminal) close() {
	t.bridge.Unsubscribe(t.out)
	t.app.close()
}

// drain handles every event queued on the bridge, including the ones the
// answers themselves cause.
func (t *terminal) drain(ctx context.Context) error {
	for {
		select {
		case msg, ok := <-t.out:
			if !ok {
				return nil
			}
			if err := t.handle(ctx, msg); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *terminal) handle(ctx context.Context, msg ipc.Message) error {
	switch msg.Event {
	case ipc.OpenFiddleDialog:
		return t.answer(ctx, "Fiddle directory to open", ipc.OpenFiddle)
	case ipc.SaveFiddleDialog:
		return t.answer(ctx, "Directory to save the fiddle to", t.saveEvent)
	case ipc.SaveFiddleError:
		text, _ := msg.StringArg(0)
		t.ui.Error(text)
	case ipc.FiddleSaved:
		dir, _ := msg.StringArg(0)
		t.ui.Success(fmt.Sprintf("Saved fiddle to %s", dir))
	case ipc.FiddleStopped:
		t.ui.Info("Fiddle stopped")
	}
	return nil
}

func (t *terminal) answer(ctx context.Context, prompt, event string) error {
	path, err := t.ui.PromptPath(prompt, "")
	if err != nil {
		return err
	}
	msg, err := ipc.NewMessage(event, path)
	if err != nil {
		return err
	}
	t.bridge.Emit(ctx, msg)
	return nil
}

// source selects which fiddle a command works on.
type source struct {
	from     string
	template string
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.from, "from", "", "fiddle directory to load (prompted for when empty)")
	cmd.Flags().StringVar(&s.template, "template", "", "template to load instead of a directory")
}

var errNothingLoaded = errors.New("no fiddle was loaded")

// load opens the selected fiddle into the editor state.
func (t *terminal) load(ctx context.Context, s source) error {
	if s.template != "" {
		if err := t.files.OpenTemplate(ctx, s.template); err != nil {
			return err
		}
	} else if err := t.files.Open(ctx, s.from); err != nil {
		return err
	}
	if err := t.drain(ctx); err != nil {
		return err
	}

	opts := t.editor.Options()
	if opts.FilePath == "" && opts.TemplateName == "" {
		return errNothingLoaded
	}
	return nil
}
