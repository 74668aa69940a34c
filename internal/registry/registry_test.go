package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/crowd-runner/internal/core"
)

type stubGame struct {
	id     string
	opts   Options
	closed bool
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func (g *stubGame) Close() error {
	g.closed = true
	return nil
}

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_stub", "Stub", func(opts Options) (Game, error) {
		return &stubGame{id: "zz_stub", opts: opts}, nil
	})

	if !Exists("zz_stub") {
		t.Fatal("registered game should exist")
	}

	g, err := Create("zz_stub", Options{Difficulty: "hard"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stub := g.(*stubGame)
	if stub.opts.Difficulty != "hard" {
		t.Errorf("options not passed through: %+v", stub.opts)
	}
	if stub.opts.Logger == nil || stub.opts.Audio == nil {
		t.Error("missing collaborators should be defaulted")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz_stub" && info.Title == "Stub" {
			found = true
		}
	}
	if !found {
		t.Error("List() should include the registered game")
	}
}

func TestCreateErrors(t *testing.T) {
	if _, err := Create("does_not_exist", Options{}); err == nil {
		t.Error("expected error for unknown game")
	}

	boom := errors.New("boom")
	Register("zz_broken", "Broken", func(Options) (Game, error) { return nil, boom })
	if _, err := Create("zz_broken", Options{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", "Dup", func(Options) (Game, error) { return &stubGame{}, nil })
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	Register("zz_dup", "Dup", func(Options) (Game, error) { return &stubGame{}, nil })
}
