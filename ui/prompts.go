package ui

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// PromptYesNo prompts the user for a yes/no answer
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if u.nonInteractive {
		return defaultYes, nil
	}
	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptInput prompts the user for text input
func (u *UI) PromptInput(prompt, defaultValue string) (string, error) {
	if u.nonInteractive {
		return defaultValue, nil
	}
	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptPath asks for a directory. An empty answer is refused.
func (u *UI) PromptPath(prompt, defaultValue string) (string, error) {
	if u.nonInteractive {
		if defaultValue == "" {
			return "", fmt.Errorf("%s: no default in non-interactive mode", prompt)
		}
		return defaultValue, nil
	}
	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}

	err := survey.AskOne(p, &result, survey.WithValidator(survey.Required))
	return result, err
}

// VerifyCreateCustomEditor asks whether an unexpected file gets an editor.
func (u *UI) VerifyCreateCustomEditor(_ context.Context, name string) (bool, error) {
	return u.PromptYesNo(fmt.Sprintf("Create a custom editor for %s?", name), false)
}

// ConfirmDiscard asks before unsaved edits are replaced.
func (u *UI) ConfirmDiscard(_ context.Context) bool {
	ok, err := u.PromptYesNo("Discard unsaved changes?", false)
	return err == nil && ok
}
