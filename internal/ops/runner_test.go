package ops

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// fakeRunner records every command and answers from handlers keyed by
// "name first-arg", e.g. "docker inspect".
type fakeRunner struct {
	mu       sync.Mutex
	commands []Command
	run      map[string]func(Command) error
	output   map[string]func(Command) ([]byte, error)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		run:    map[string]func(Command) error{},
		output: map[string]func(Command) ([]byte, error){},
	}
}

func commandKey(c Command) string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + c.Args[0]
}

func (f *fakeRunner) Run(_ context.Context, c Command) error {
	f.mu.Lock()
	f.commands = append(f.commands, c)
	handler := f.run[commandKey(c)]
	f.mu.Unlock()
	if handler == nil {
		return nil
	}
	return handler(c)
}

func (f *fakeRunner) Output(_ context.Context, c Command) ([]byte, error) {
	f.mu.Lock()
	f.commands = append(f.commands, c)
	handler := f.output[commandKey(c)]
	f.mu.Unlock()
	if handler == nil {
		return nil, nil
	}
	return handler(c)
}

func (f *fakeRunner) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.commands))
	for _, c := range f.commands {
		keys = append(keys, commandKey(c))
	}
	return keys
}

func (f *fakeRunner) count(key string) int {
	n := 0
	for _, k := range f.keys() {
		if k == key {
			n++
		}
	}
	return n
}

var errCommandFailed = errors.New("exit status 1")

func argvContains(c Command, needle string) bool {
	for _, a := range append([]string{c.Name}, c.Args...) {
		if strings.Contains(a, needle) {
			return true
		}
	}
	return false
}
