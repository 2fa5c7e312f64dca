package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

func termReadPassword() (string, error) {
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptPassword returns flagValue if set, and otherwise prompts on
// stderr and reads a password with passwordIn.
func promptPassword(flagValue string, passwordIn func() (string, error)) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(os.Stderr, "Enter password: ")
	pw, err := passwordIn()
	fmt.Fprintln(os.Stderr)
	return pw, err
}
