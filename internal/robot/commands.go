package robot

import "fmt"

// Command is an externally invokable operation exposed by a robot. Commands
// are enumerated by name (not body) in the robot's serialized form.
type Command func(args map[string]any) (any, error)

// AddCommand registers a command under the given name, replacing any
// existing command with that name.
func (r *Robot) AddCommand(name string, cmd Command) {
	r.mu.Lock()
	r.commands[name] = cmd
	r.mu.Unlock()
}

// Command returns the named command, if registered.
func (r *Robot) Command(name string) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns a copy of the command table.
func (r *Robot) Commands() map[string]Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Command, len(r.commands))
	for name, cmd := range r.commands {
		out[name] = cmd
	}
	return out
}

// Execute invokes the named command. Returns ErrUnknownCommand when the name
// is not in the command table.
func (r *Robot) Execute(name string, args map[string]any) (any, error) {
	cmd, ok := r.Command(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd(args)
}

// bindExtra converts a callable configuration extra into a Command bound to
// this robot. Returns false when the value is not a recognised callable.
func (r *Robot) bindExtra(v any) (Command, bool) {
	switch fn := v.(type) {
	case Command:
		return fn, true
	case func(args map[string]any) (any, error):
		return Command(fn), true
	case func(r *Robot, args map[string]any) (any, error):
		return func(args map[string]any) (any, error) {
			return fn(r, args)
		}, true
	case func(r *Robot):
		return func(map[string]any) (any, error) {
			fn(r)
			return nil, nil
		}, true
	default:
		return nil, false
	}
}
