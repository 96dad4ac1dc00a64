package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"zone-editor/internal/app"
	"zone-editor/internal/editor"
	"zone-editor/internal/zone"
)

// step is one parsed script line.
type step struct {
	line int
	verb string
	args []string
}

// parseScript reads a pointer script: one command per line, '#' starts a comment.
//
//	size W H          set the display size
//	down X Y [right]  press (primary unless "right")
//	move X Y          move the pointer
//	up X Y [right]    release
//	click X Y         press and release
//	rclick X Y        secondary press and release
//	leave             pointer leaves the surface
//	cancel            abandon drawing or drag
//	kind polygon|line switch drawing kind
//	select ID|none    select a zone by id
//	delete            delete the selected zone
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		st := step{line: n, verb: strings.ToLower(fields[0]), args: fields[1:]}
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func (s step) check() error {
	want := map[string][2]int{
		"size":   {2, 2},
		"down":   {2, 3},
		"move":   {2, 2},
		"up":     {2, 3},
		"click":  {2, 2},
		"rclick": {2, 2},
		"leave":  {0, 0},
		"cancel": {0, 0},
		"kind":   {1, 1},
		"select": {1, 1},
		"delete": {0, 0},
	}
	n, ok := want[s.verb]
	if !ok {
		return fmt.Errorf("unknown command %q", s.verb)
	}
	if len(s.args) < n[0] || len(s.args) > n[1] {
		return fmt.Errorf("%s takes %d-%d arguments, got %d", s.verb, n[0], n[1], len(s.args))
	}
	switch s.verb {
	case "size", "down", "move", "up", "click", "rclick":
		if _, err := s.pointer(); err != nil {
			return err
		}
	case "kind":
		if _, err := zone.ParseKind(s.args[0]); err != nil {
			return err
		}
	}
	return nil
}

func (s step) pointer() (editor.PointerEvent, error) {
	x, err := strconv.ParseFloat(s.args[0], 64)
	if err != nil {
		return editor.PointerEvent{}, fmt.Errorf("bad x %q", s.args[0])
	}
	y, err := strconv.ParseFloat(s.args[1], 64)
	if err != nil {
		return editor.PointerEvent{}, fmt.Errorf("bad y %q", s.args[1])
	}
	ev := editor.PointerEvent{X: x, Y: y}
	if len(s.args) == 3 && s.args[2] == "right" {
		ev.Button = editor.ButtonSecondary
	}
	return ev, nil
}

// run applies steps to the session. Rejected operations are reported through
// warn and do not stop the script.
func run(s *app.Session, steps []step, warn func(step, error)) {
	for _, st := range steps {
		if err := apply(s, st); err != nil {
			warn(st, err)
		}
	}
}

func apply(s *app.Session, st step) error {
	var ev editor.PointerEvent
	switch st.verb {
	case "size", "down", "move", "up", "click", "rclick":
		ev, _ = st.pointer()
	}

	switch st.verb {
	case "size":
		s.SetDisplaySize(ev.X, ev.Y)
	case "down":
		return s.PointerDown(ev)
	case "move":
		return s.PointerMove(ev)
	case "up":
		return s.PointerUp(ev)
	case "click", "rclick":
		if st.verb == "rclick" {
			ev.Button = editor.ButtonSecondary
		}
		if err := s.PointerDown(ev); err != nil {
			return err
		}
		return s.PointerUp(ev)
	case "leave":
		s.PointerLeave()
	case "cancel":
		s.Cancel()
	case "kind":
		kind, _ := zone.ParseKind(st.args[0])
		return s.SetKind(kind)
	case "select":
		id := st.args[0]
		if id == "none" {
			id = ""
		}
		return s.Select(id)
	case "delete":
		return s.DeleteSelected()
	}
	return nil
}
