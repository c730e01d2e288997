package label

import (
	"bufio"
	"fmt"
	"os"
)

// transcript is the plain-text log of one labeling pass. It is truncated
// when opened.
type transcript struct {
	f *os.File
	w *bufio.Writer
}

func openTranscript(path string) (*transcript, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &transcript{f: f, w: bufio.NewWriter(f)}, nil
}

func (t *transcript) page(label, prompt, response string) error {
	if t == nil {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "%s\nPROMPT:\n%s\n\nRESPONSE:\n%s\n\n", label, prompt, response)
	return err
}

func (t *transcript) failure(label, msg string) error {
	if t == nil {
		return nil
	}
	_, err := fmt.Fprintf(t.w, "%s\n%s\n\n", label, msg)
	return err
}

func (t *transcript) Close() error {
	if t == nil {
		return nil
	}
	if err := t.w.Flush(); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}
